package orders

import (
	"context"
	"errors"
	"testing"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/database/dbtest"
	"cafe-pos/internal/events"
	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type OrderServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	hub   *events.Hub
	audit *audit.Log
	svc   *Service
	staff *auth.Identity
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = dbtest.Open(s.T())
	s.hub = events.NewHub(16)
	s.audit = audit.New(s.db, zerolog.Nop())
	s.svc = NewService(s.db, s.audit, s.hub, zerolog.Nop())
	s.staff = &auth.Identity{ID: 1, Username: "admin", Name: "Haidar", Role: models.RoleAdmin}
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func latte(qty int) ItemInput  { return ItemInput{ProductID: 1, Name: "Latte", Price: 5, Qty: qty} }
func cookie(qty int) ItemInput { return ItemInput{ProductID: 2, Name: "Cookie", Price: 3, Qty: qty} }

func (s *OrderServiceTestSuite) createOrder(items ...ItemInput) *models.Order {
	order, err := s.svc.Create(s.ctx, nil, items)
	s.Require().NoError(err)
	return order
}

func (s *OrderServiceTestSuite) actions() []string {
	entries, err := s.audit.List(s.ctx)
	s.Require().NoError(err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func (s *OrderServiceTestSuite) TestCreate_ComputesTotalAndDefaults() {
	ch, stop := s.hub.Subscribe()
	defer stop()

	order := s.createOrder(latte(2), cookie(1))

	s.Equal(13.0, order.Total)
	s.Equal("pending", order.StatusName)
	s.Equal("Pending", order.Label)
	s.Equal("#f59e0b", order.Color)
	s.Equal(models.PaymentUnpaid, order.PaymentStatus)
	s.False(order.IsArchived)
	s.False(order.CreatedAt.IsZero())
	s.Len(order.Items, 2)

	evt := <-ch
	s.Equal(events.NewOrder, evt.Type)
	s.Equal(order.ID, evt.OrderID)

	entries, err := s.audit.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Customer Order", entries[0].Action)
	s.Nil(entries[0].UserID)
	s.Contains(entries[0].Details, "Total: $13.00")
}

func (s *OrderServiceTestSuite) TestCreate_TotalMatchesItems() {
	cases := [][]ItemInput{
		{{ProductID: 1, Name: "Espresso", Price: 0.1, Qty: 3}},
		{{ProductID: 1, Name: "Mocha", Price: 4.35, Qty: 7}, {ProductID: 2, Name: "Water", Price: 0.2, Qty: 1}},
		{{ProductID: 3, Name: "Cake", Price: 0, Qty: 2}},
	}
	for _, items := range cases {
		order := s.createOrder(items...)
		var sum float64
		for _, it := range order.Items {
			sum += it.Price * float64(it.Qty)
		}
		s.InDelta(sum, order.Total, 1e-9)
	}
}

func (s *OrderServiceTestSuite) TestCreate_AcceptsIDAlias() {
	order := s.createOrder(ItemInput{ID: 9, Name: "Tea", Price: 2, Qty: 1})
	s.Equal(uint(9), order.Items[0].ProductID)
}

func (s *OrderServiceTestSuite) TestCreate_Rejects() {
	_, err := s.svc.Create(s.ctx, nil, nil)
	s.ErrorIs(err, ErrEmptyOrder)

	_, err = s.svc.Create(s.ctx, nil, []ItemInput{latte(0)})
	s.ErrorIs(err, ErrInvalidItem)

	_, err = s.svc.Create(s.ctx, nil, []ItemInput{{ProductID: 1, Name: "Latte", Price: -1, Qty: 1}})
	s.ErrorIs(err, ErrInvalidItem)

	_, err = s.svc.Create(s.ctx, nil, []ItemInput{{Name: "Ghost", Price: 1, Qty: 1}})
	s.ErrorIs(err, ErrInvalidItem)

	var count int64
	s.db.Model(&models.Order{}).Count(&count)
	s.Zero(count)
}

func (s *OrderServiceTestSuite) TestUpdate_ReplacesItems() {
	order := s.createOrder(latte(2), cookie(1))

	updated, err := s.svc.Update(s.ctx, s.staff, order.ID, []ItemInput{
		{ProductID: 3, Name: "Cappuccino", Price: 4.5, Qty: 2},
		cookie(0), // removed
	})
	s.Require().NoError(err)

	s.Require().Len(updated.Items, 1)
	s.Equal("Cappuccino", updated.Items[0].Name)
	s.Equal(9.0, updated.Total)

	var rows int64
	s.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&rows)
	s.Equal(int64(1), rows)
	s.Contains(s.actions(), "Update Order")
}

func (s *OrderServiceTestSuite) TestUpdate_Errors() {
	_, err := s.svc.Update(s.ctx, s.staff, 404, []ItemInput{latte(1)})
	s.ErrorIs(err, ErrOrderNotFound)

	order := s.createOrder(latte(1))
	_, err = s.svc.Update(s.ctx, s.staff, order.ID, []ItemInput{latte(0)})
	s.ErrorIs(err, ErrEmptyOrder)

	// failed update leaves the order untouched
	got, err := s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Len(got.Items, 1)
	s.Equal(5.0, got.Total)
}

func (s *OrderServiceTestSuite) TestUpdate_RollsBackWhenItemInsertFails() {
	order := s.createOrder(latte(2), cookie(1))
	auditBefore := len(s.actions())

	// fail every order_items insert from here on, after the total update and item delete ran
	err := s.db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	s.Require().NoError(err)

	_, err = s.svc.Update(s.ctx, s.staff, order.ID, []ItemInput{{ProductID: 3, Name: "Cappuccino", Price: 4.5, Qty: 1}})
	s.Require().Error(err)
	s.NotErrorIs(err, ErrOrderNotFound)

	got, err := s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(13.0, got.Total)
	s.Require().Len(got.Items, 2)
	names := []string{got.Items[0].Name, got.Items[1].Name}
	s.ElementsMatch([]string{"Latte", "Cookie"}, names)
	s.Len(s.actions(), auditBefore, "a failed update is not audited")
}

func (s *OrderServiceTestSuite) TestSetStatus_CaseInsensitive() {
	order := s.createOrder(latte(1))

	applied, err := s.svc.SetStatus(s.ctx, s.staff, order.ID, "READY")
	s.Require().NoError(err)
	s.True(applied)

	got, err := s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal("ready", got.StatusName)

	// any jump is allowed
	applied, err = s.svc.SetStatus(s.ctx, s.staff, order.ID, "pending")
	s.Require().NoError(err)
	s.True(applied)
}

func (s *OrderServiceTestSuite) TestSetStatus_UnknownLabelIsNoop() {
	order := s.createOrder(latte(1))
	_, err := s.svc.SetStatus(s.ctx, s.staff, order.ID, "preparing")
	s.Require().NoError(err)

	applied, err := s.svc.SetStatus(s.ctx, s.staff, order.ID, "bogus")
	s.Require().NoError(err)
	s.False(applied)

	got, err := s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal("preparing", got.StatusName)
}

func (s *OrderServiceTestSuite) TestSetPaymentStatus() {
	order := s.createOrder(latte(1))
	_, err := s.svc.SetStatus(s.ctx, s.staff, order.ID, "cancelled")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.SetPaymentStatus(s.ctx, s.staff, order.ID, "Paid"))
	got, err := s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(models.PaymentPaid, got.PaymentStatus)

	s.ErrorIs(s.svc.SetPaymentStatus(s.ctx, s.staff, order.ID, "refunded"), ErrInvalidPayment)
}

func (s *OrderServiceTestSuite) TestArchive_Idempotent() {
	order := s.createOrder(latte(1))

	s.Require().NoError(s.svc.Archive(s.ctx, s.staff, order.ID))
	s.Require().NoError(s.svc.Archive(s.ctx, s.staff, order.ID))

	got, err := s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.True(got.IsArchived)

	active, err := s.svc.List(s.ctx, false)
	s.Require().NoError(err)
	s.Empty(active)
	archived, err := s.svc.List(s.ctx, true)
	s.Require().NoError(err)
	s.Len(archived, 1)

	count := 0
	for _, a := range s.actions() {
		if a == "Archive Order" {
			count++
		}
	}
	s.Equal(2, count)

	s.Require().NoError(s.svc.Unarchive(s.ctx, s.staff, order.ID))
	got, err = s.svc.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.False(got.IsArchived)
}

func (s *OrderServiceTestSuite) TestActive_ExcludesFinishedAndArchived() {
	pending := s.createOrder(latte(1))
	preparing := s.createOrder(latte(1))
	ready := s.createOrder(latte(1))
	cancelled := s.createOrder(latte(1))
	archived := s.createOrder(latte(1))

	for id, label := range map[uint]string{preparing.ID: "preparing", ready.ID: "ready", cancelled.ID: "Cancelled"} {
		_, err := s.svc.SetStatus(s.ctx, s.staff, id, label)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.svc.Archive(s.ctx, s.staff, archived.ID))

	active, err := s.svc.Active(s.ctx)
	s.Require().NoError(err)
	ids := []uint{}
	for _, o := range active {
		ids = append(ids, o.ID)
		s.NotContains([]string{"ready", "cancelled"}, o.StatusName)
	}
	s.ElementsMatch([]uint{pending.ID, preparing.ID}, ids)

	// ready stays in the general list until archived
	list, err := s.svc.List(s.ctx, false)
	s.Require().NoError(err)
	s.Len(list, 4)
}

func (s *OrderServiceTestSuite) TestBulkArchive() {
	before := len(s.actions())
	n, err := s.svc.BulkArchive(s.ctx, s.staff, nil)
	s.Require().NoError(err)
	s.Zero(n)
	s.Len(s.actions(), before)

	a := s.createOrder(latte(1))
	b := s.createOrder(latte(1))
	c := s.createOrder(latte(1))

	n, err = s.svc.BulkArchive(s.ctx, s.staff, []uint{a.ID, c.ID})
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	active, err := s.svc.List(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(b.ID, active[0].ID)
}

func (s *OrderServiceTestSuite) TestArchiveAll() {
	s.createOrder(latte(1))
	s.createOrder(cookie(2))

	n, err := s.svc.ArchiveAll(s.ctx, s.staff)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	active, err := s.svc.List(s.ctx, false)
	s.Require().NoError(err)
	s.Empty(active)
}

func (s *OrderServiceTestSuite) TestDelete_RemovesItems() {
	keep := s.createOrder(latte(1))
	gone := s.createOrder(latte(1), cookie(3))

	s.Require().NoError(s.svc.Delete(s.ctx, s.staff, gone.ID))

	_, err := s.svc.Get(s.ctx, gone.ID)
	s.ErrorIs(err, ErrOrderNotFound)

	var rows int64
	s.db.Model(&models.OrderItem{}).Where("order_id = ?", gone.ID).Count(&rows)
	s.Zero(rows)

	_, err = s.svc.Get(s.ctx, keep.ID)
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestClearAll() {
	s.createOrder(latte(1))
	archived := s.createOrder(latte(1))
	s.Require().NoError(s.svc.Archive(s.ctx, s.staff, archived.ID))

	s.Require().NoError(s.svc.ClearAll(s.ctx, s.staff))

	var orders, items int64
	s.db.Model(&models.Order{}).Count(&orders)
	s.db.Model(&models.OrderItem{}).Count(&items)
	s.Zero(orders)
	s.Zero(items)
	s.Equal("Clear Orders History", s.actions()[0])
}

func (s *OrderServiceTestSuite) TestGet_AddsArabicProductName() {
	product := models.Product{Name: "Latte", NameAr: "لاتيه", Price: 5}
	s.Require().NoError(s.db.Create(&product).Error)

	order := s.createOrder(ItemInput{ProductID: product.ID, Name: "Latte", Price: 5, Qty: 1})
	s.Equal("لاتيه", order.Items[0].NameAr)
}

func TestBuildItems(t *testing.T) {
	items, total, err := buildItems([]ItemInput{latte(2), cookie(0), cookie(1)}, true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 13.0, total)

	_, _, err = buildItems([]ItemInput{cookie(0)}, true)
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, _, err = buildItems([]ItemInput{latte(-1)}, true)
	require.ErrorIs(t, err, ErrInvalidItem)
}
