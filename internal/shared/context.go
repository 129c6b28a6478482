package shared

import "context"

type companyContextKey struct{}

// ContextWithCompany stores the owner company id in context. Every billing
// and masterdata lookup is scoped by this value; there is no ambient tenant.
func ContextWithCompany(ctx context.Context, companyID int64) context.Context {
	return context.WithValue(ctx, companyContextKey{}, companyID)
}

// CompanyFromContext extracts the owner company id from context.
func CompanyFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(companyContextKey{}).(int64)
	return id, ok
}
