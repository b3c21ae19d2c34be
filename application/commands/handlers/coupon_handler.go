package handlers

import (
	"context"
	"fmt"

	"storeadmin/application/commands"
	"storeadmin/application/ports"
	"storeadmin/domain/config"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/events"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// CouponHandler handles coupon commands. Coupons are never cached.
type CouponHandler struct {
	coupons   ports.CouponRepository
	publisher ports.EventPublisher
	clock     clockwork.Clock
	cfg       *config.DomainConfig
	logger    *zap.Logger
}

func NewCouponHandler(
	coupons ports.CouponRepository,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CouponHandler {
	return &CouponHandler{
		coupons:   coupons,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

func (h *CouponHandler) CreateCoupon(ctx context.Context, cmd commands.CreateCouponCommand) error {
	if err := h.ensureCodeFree(ctx, cmd.Code, ""); err != nil {
		return err
	}

	now := h.clock.Now()
	coupon, err := entities.NewCoupon(cmd.Spec(), h.cfg.DefaultCouponUsageLimit, now)
	if err != nil {
		return err
	}
	coupon.ID = cmd.CouponID

	if err := h.coupons.Save(ctx, coupon); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewCouponChanged(coupon.ID, coupon.Code, false, now))
	return nil
}

func (h *CouponHandler) UpdateCoupon(ctx context.Context, cmd commands.UpdateCouponCommand) error {
	coupon, err := h.coupons.GetByID(ctx, cmd.CouponID)
	if err != nil {
		return err
	}
	if err := h.ensureCodeFree(ctx, cmd.Code, coupon.ID); err != nil {
		return err
	}

	now := h.clock.Now()
	if err := coupon.Replace(cmd.Spec(), now); err != nil {
		return err
	}
	if err := h.coupons.Save(ctx, coupon); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewCouponChanged(coupon.ID, coupon.Code, false, now))
	return nil
}

func (h *CouponHandler) DeleteCoupon(ctx context.Context, cmd commands.DeleteCouponCommand) error {
	coupon, err := h.coupons.GetByID(ctx, cmd.CouponID)
	if err != nil {
		return err
	}
	if err := h.coupons.Delete(ctx, coupon.ID); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewCouponChanged(coupon.ID, coupon.Code, true, h.clock.Now()))
	return nil
}

// ensureCodeFree fails with CONFLICT when code belongs to a coupon other than ownerID.
func (h *CouponHandler) ensureCodeFree(ctx context.Context, code, ownerID string) error {
	existing, err := h.coupons.GetByCode(ctx, entities.NormalizeCouponCode(code))
	switch {
	case pkgerrors.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return pkgerrors.NewConflictError(fmt.Sprintf("coupon code %q already exists", existing.Code))
	}
	return nil
}
