package menu

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

var repoTracer = otel.Tracer("github.com/tablewise/tablewise/repository/menu")

// bunRepository stores menu items in the relational database.
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

func (r *bunRepository) List(ctx context.Context, filter Filter) ([]entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.List")
	defer span.End()

	var items []entity.MenuItem
	q := r.reader.NewSelect().Model(&items).Order("name ASC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Available != nil {
		q = q.Where("available = ?", *filter.Available)
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

func (r *bunRepository) GetByID(ctx context.Context, id int64) (*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.GetByID", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item := new(entity.MenuItem)
	err := r.reader.NewSelect().Model(item).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return item, nil
}

func (r *bunRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Create", trace.WithAttributes(attribute.String("menu_item.name", item.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(item).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

func (r *bunRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Update", trace.WithAttributes(attribute.Int64("menu_item.id", item.ID)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model(item).WherePK().Exec(ctx)
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

func (r *bunRepository) UpdateAvailability(ctx context.Context, id int64, available bool) (*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.UpdateAvailability", trace.WithAttributes(
		attribute.Int64("menu_item.id", id),
		attribute.Bool("menu_item.available", available),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.MenuItem)(nil)).
		Set("available = ?", available).
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
	return r.GetByID(ctx, id)
}

func (r *bunRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Delete", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.MenuItem)(nil)).Where("id = ?", id).Exec(ctx)
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

func (r *bunRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Categories")
	defer span.End()

	var categories []string
	err := r.reader.NewSelect().
		Model((*entity.MenuItem)(nil)).
		ColumnExpr("DISTINCT category").
		Where("category <> ''").
		OrderExpr("category ASC").
		Scan(ctx, &categories)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return categories, nil
}
