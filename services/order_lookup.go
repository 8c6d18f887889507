package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Identity paths, in the order their results are merged.
const (
	PathUserID        = "user_id"
	PathUserEmail     = "user_email"
	PathCustomerEmail = "customer_email"
)

const defaultLookupTimeout = 5 * time.Second

// OrderLookupService finds every order that belongs to a principal, whether
// it is linked by user id, through the user's email, or only by the email
// typed at checkout.
type OrderLookupService struct {
	resolver *IdentityResolver
	orders   OrderFinder
	timeout  time.Duration
	recorder LookupRecorder
}

func NewOrderLookupService(resolver *IdentityResolver, orders OrderFinder, timeout time.Duration, recorder LookupRecorder) *OrderLookupService {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &OrderLookupService{
		resolver: resolver,
		orders:   orders,
		timeout:  timeout,
		recorder: recorder,
	}
}

// ForPrincipal returns the principal's orders once each, newest first. An
// identifier with no user record yields an empty list. If any path fails
// the whole lookup fails with a LookupError naming that path.
func (s *OrderLookupService) ForPrincipal(ctx context.Context, identifier string) ([]models.Order, error) {
	log := utils.LoggerFromContext(ctx)

	user, err := s.resolver.Resolve(ctx, identifier)
	if errors.Is(err, models.ErrNotFound) {
		log.WithField("identifier", identifier).Debug("No user for principal, returning no orders")
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var byUserID, byUserEmail, byCustomerEmail []models.Order
	s.runPath(g, gctx, PathUserID, &byUserID, func(ctx context.Context) ([]models.Order, error) {
		return s.orders.FindByUserID(ctx, user.ID)
	})
	s.runPath(g, gctx, PathUserEmail, &byUserEmail, func(ctx context.Context) ([]models.Order, error) {
		return s.orders.FindByUserEmail(ctx, user.Email)
	})
	s.runPath(g, gctx, PathCustomerEmail, &byCustomerEmail, func(ctx context.Context) ([]models.Order, error) {
		return s.orders.FindByCustomerEmail(ctx, user.Email)
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Order lookup failed")
		return nil, err
	}

	merged := MergeOrders(byUserID, byUserEmail, byCustomerEmail)
	log.WithFields(logrus.Fields{
		"principal_id":              user.ID,
		"hits_" + PathUserID:        len(byUserID),
		"hits_" + PathUserEmail:     len(byUserEmail),
		"hits_" + PathCustomerEmail: len(byCustomerEmail),
		"unique_order_count":        len(merged),
	}).Info("Resolved orders for principal")
	return merged, nil
}

func (s *OrderLookupService) runPath(g *errgroup.Group, ctx context.Context, path string, dst *[]models.Order, find func(context.Context) ([]models.Order, error)) {
	g.Go(func() error {
		orders, err := find(ctx)
		if err == nil {
			// A store that ignores cancellation must not turn a timeout into success.
			err = ctx.Err()
		}
		if s.recorder != nil {
			s.recorder.ObserveLookupPath(path, len(orders), err)
		}
		if err != nil {
			return &models.LookupError{Path: path, Err: err}
		}
		*dst = orders
		return nil
	})
}

// MergeOrders concatenates the lists, keeps the first occurrence of every
// order id and sorts newest first. Orders created at the same instant keep
// their merged order.
func MergeOrders(lists ...[]models.Order) []models.Order {
	seen := make(map[uint]bool)
	merged := make([]models.Order, 0)
	for _, list := range lists {
		for _, order := range list {
			if seen[order.ID] {
				continue
			}
			seen[order.ID] = true
			merged = append(merged, order)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
