package documents

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoDocumentNumber reports that neither the current nor the previous
// billing year has any document of the requested type.
var ErrNoDocumentNumber = errors.New("no document number issued yet")

// numberPrefix builds the year-scoped docNumber prefix, e.g. "Q2026-".
func numberPrefix(p Policy, year int) string {
	return fmt.Sprintf("%s%d-", p.NumberPrefix, year)
}

// lastNumberer is the slice of the repository the numbering lookup needs.
type lastNumberer interface {
	LastDocNumber(ctx context.Context, ownerID int64, docType DocType, prefix string) (string, error)
}

// lastDocNumber returns the highest docNumber of the current year, falling
// back to the previous year when the current one has none. The lookup is
// advisory: clients use it to propose the next number, the server does not
// allocate numbers itself.
func lastDocNumber(ctx context.Context, repo lastNumberer, ownerID int64, p Policy, now time.Time) (string, error) {
	year := now.Year()
	num, err := repo.LastDocNumber(ctx, ownerID, p.DocType, numberPrefix(p, year))
	if err == nil {
		return num, nil
	}
	if !errors.Is(err, ErrNoDocumentNumber) {
		return "", err
	}
	return repo.LastDocNumber(ctx, ownerID, p.DocType, numberPrefix(p, year-1))
}
