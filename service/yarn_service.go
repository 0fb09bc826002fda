package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"yarn_inventory/db"
	"yarn_inventory/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// YarnStore is the slice of the repository the service needs.
type YarnStore interface {
	ListYarn(ctx context.Context, f db.YarnFilter) ([]models.Yarn, error)
	FindYarn(ctx context.Context, id int64) (*models.Yarn, error)
	CreateYarn(ctx context.Context, y *models.Yarn) error
	UpdateYarn(ctx context.Context, id int64, fields map[string]any) error
	SoftDeleteYarn(ctx context.Context, id int64, when time.Time) (int64, error)
}

var _ YarnStore = (*db.Repo)(nil)

// ListFilter holds the optional substring filters of List.
type ListFilter struct {
	Brand string
	Color string
}

// YarnService implements list/get/create/update/soft-delete over a YarnStore.
type YarnService struct {
	store    YarnStore
	validate *validator.Validate
	logger   *zap.Logger

	// Now stamps date_added and deleted_when.
	Now func() time.Time
}

// NewYarnService wires a service over store.
func NewYarnService(store YarnStore, logger *zap.Logger) *YarnService {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &YarnService{
		store:    store,
		validate: v,
		logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// ParseID converts a path parameter into an id, rejecting anything that is
// not a positive integer.
func ParseID(raw string) (int64, error) {
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, &ValidationError{Message: MsgInvalidID}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Message: MsgInvalidID}
	}
	return id, nil
}

func checkID(id int64) error {
	if id <= 0 {
		return &ValidationError{Message: MsgInvalidID}
	}
	return nil
}

// storageErr logs the cause and returns the generic ErrStorage.
func (s *YarnService) storageErr(op string, err error, fields ...zap.Field) error {
	s.logger.Error(op+" failed", append(fields, zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, ErrStorage)
}

// List returns every non-deleted item matching f, newest first.
func (s *YarnService) List(ctx context.Context, f ListFilter) ([]models.Yarn, error) {
	items, err := s.store.ListYarn(ctx, db.YarnFilter{Brand: f.Brand, Color: f.Color})
	if err != nil {
		return nil, s.storageErr("list yarn", err,
			zap.String("brand", f.Brand), zap.String("color", f.Color))
	}
	return items, nil
}

// Get returns the non-deleted item with id.
func (s *YarnService) Get(ctx context.Context, id int64) (*models.Yarn, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	y, err := s.store.FindYarn(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storageErr("get yarn", err, zap.Int64("id", id))
	}
	return y, nil
}

// Create validates the required fields, stores a new item and returns its id.
func (s *YarnService) Create(ctx context.Context, in models.YarnInput) (int64, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return 0, &ValidationError{Message: MsgMissingRequired}
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return 0, &ValidationError{Message: MsgMissingRequired, Fields: fields}
	}

	status := models.YarnStatusActive
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		status = *in.Status
	}

	y := &models.Yarn{
		UserID:      *in.UserID,
		DateAdded:   s.Now(),
		Brand:       *in.Brand,
		Name:        *in.Name,
		Color:       emptyToNil(in.Color),
		Count:       in.Count,
		StartLen:    *in.StartLen,
		StartWeight: *in.StartWeight,
		CurrWeight:  *in.CurrWeight,
		UPC:         emptyToNil(in.UPC),
		Status:      &status,
	}
	if err := s.store.CreateYarn(ctx, y); err != nil {
		return 0, s.storageErr("create yarn", err)
	}

	s.logger.Info("yarn created", zap.Int64("id", y.ID), zap.Int64("user_id", y.UserID))
	return y.ID, nil
}

// Update overwrites every mutable field of the non-deleted item with id.
// Fields left out of in are written as NULL.
func (s *YarnService) Update(ctx context.Context, id int64, in models.YarnInput) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	fields := map[string]any{
		"brand":        nullable(in.Brand),
		"name":         nullable(in.Name),
		"color":        nullable(in.Color),
		"count":        nullable(in.Count),
		"start_len":    nullable(in.StartLen),
		"start_weight": nullable(in.StartWeight),
		"curr_weight":  nullable(in.CurrWeight),
		"upc":          nullable(in.UPC),
		"status":       nullable(in.Status),
	}
	if err := s.store.UpdateYarn(ctx, id, fields); err != nil {
		return s.storageErr("update yarn", err, zap.Int64("id", id))
	}

	s.logger.Info("yarn updated", zap.Int64("id", id))
	return nil
}

// Delete soft-deletes the non-deleted item with id.
func (s *YarnService) Delete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	n, err := s.store.SoftDeleteYarn(ctx, id, s.Now())
	if err != nil {
		return s.storageErr("delete yarn", err, zap.Int64("id", id))
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Info("yarn deleted", zap.Int64("id", id))
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// nullable unwraps p so a missing value reaches the driver as an untyped nil.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
