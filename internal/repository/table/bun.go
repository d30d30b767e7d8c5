package table

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

var repoTracer = otel.Tracer("github.com/tablewise/tablewise/repository/table")

// bunRepository stores dining tables in the relational database.
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

func (r *bunRepository) List(ctx context.Context, filter Filter) ([]entity.DiningTable, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.List")
	defer span.End()

	var tables []entity.DiningTable
	q := r.reader.NewSelect().Model(&tables).Order("number ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return tables, nil
}

func (r *bunRepository) GetByID(ctx context.Context, id int64) (*entity.DiningTable, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.GetByID", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t := new(entity.DiningTable)
	err := r.reader.NewSelect().Model(t).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return t, nil
}

func (r *bunRepository) Create(ctx context.Context, table *entity.DiningTable) error {
	if table == nil {
		return errors.New("nil table")
	}
	ctx, span := repoTracer.Start(ctx, "TableRepository.Create", trace.WithAttributes(attribute.String("table.number", table.Number)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(table).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

func (r *bunRepository) UpdateSeating(ctx context.Context, table *entity.DiningTable) error {
	if table == nil {
		return errors.New("nil table")
	}
	ctx, span := repoTracer.Start(ctx, "TableRepository.UpdateSeating", trace.WithAttributes(
		attribute.Int64("table.id", table.ID),
		attribute.String("table.status", string(table.Status)),
	))
	defer span.End()

	table.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().Model(table).
		Column("status", "current_party_size", "reservation_time", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
