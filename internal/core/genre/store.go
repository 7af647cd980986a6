package genre

import "context"

type Repository interface {
	Create(context context.Context, genre *Genre) error
	FindBySlug(context context.Context, slug string) (*Genre, error)
	FindBySlugs(context context.Context, slugs []string) ([]Genre, error)
	List(context context.Context, search string, limit, offset int) ([]Genre, int, error)
	Delete(context context.Context, slug string) error
}
