package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tablewise/tablewise/internal/database"
	"github.com/tablewise/tablewise/internal/entity"
)

var repoTracer = otel.Tracer("github.com/tablewise/tablewise/repository/order")

// bunRepository stores orders in the relational database.
type bunRepository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewBun wires a repository backed by configured database connections.
func NewBun(conns *database.Connections) Repository {
	return &bunRepository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

func (r *bunRepository) List(ctx context.Context, filter Filter) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	var orders []entity.Order
	q := r.reader.NewSelect().Model(&orders).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

func (r *bunRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

func (r *bunRepository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

func (r *bunRepository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}

	// The reader may lag the writer; resolve the record through the writer so
	// callers always observe the status they just stored.
	order := new(entity.Order)
	if err := r.writer.NewSelect().Model(order).Where("id = ?", id).Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload failed")
		return nil, err
	}
	return order, nil
}

func (r *bunRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
