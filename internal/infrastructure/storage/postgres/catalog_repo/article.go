// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories. Catalogs are master data: the engine only reads them.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain/catalogs/article"
	"kardex/internal/infrastructure/storage/postgres"
)

const articlesTable = "cat_articles"

// ArticleRepo implements article.Repository.
type ArticleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewArticleRepo creates an article catalog repository.
func NewArticleRepo(txm *postgres.TxManager) *ArticleRepo {
	return &ArticleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID returns an article or a NOT_FOUND error.
func (r *ArticleRepo) GetByID(ctx context.Context, articleID id.ID) (article.Article, error) {
	q := r.builder.Select(
		"id", "code", "name", "purchase_cost", "sale_price", "min_stock",
	).From(articlesTable).
		Where(squirrel.Eq{"id": articleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return article.Article{}, fmt.Errorf("build query: %w", err)
	}

	var a article.Article
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return article.Article{}, apperror.NewNotFound("article", articleID.String())
		}
		return article.Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// List returns articles ordered by name.
func (r *ArticleRepo) List(ctx context.Context) ([]article.Article, error) {
	q := r.builder.Select(
		"id", "code", "name", "purchase_cost", "sale_price", "min_stock",
	).From(articlesTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var articles []article.Article
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &articles, sql, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}
	return articles, nil
}
