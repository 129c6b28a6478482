package documents

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateOrdersForBilling(t *testing.T) {
	parent := &Document{ID: 5, OrderIDs: []int64{1, 2}}

	cases := []struct {
		name    string
		company int64
		orders  []BillableOrder
		parent  *Document
		wantErr error
	}{
		{
			name:    "clean set",
			company: 2,
			orders:  []BillableOrder{{ID: 1, CompanyID: 2}, {ID: 2, CompanyID: 2}},
		},
		{
			name:    "foreign order",
			company: 2,
			orders:  []BillableOrder{{ID: 1, CompanyID: 2}, {ID: 2, CompanyID: 3}},
			wantErr: ErrOrderWrongCompany,
		},
		{
			name:    "billed without parent",
			company: 2,
			orders:  []BillableOrder{{ID: 1, CompanyID: 2, Billed: true}},
			wantErr: ErrOrderAlreadyBilled,
		},
		{
			name:    "billed by the parent being amended",
			company: 2,
			orders:  []BillableOrder{{ID: 1, CompanyID: 2, Billed: true}, {ID: 2, CompanyID: 2, Billed: true}},
			parent:  parent,
		},
		{
			name:    "billed by another document despite parent",
			company: 2,
			orders:  []BillableOrder{{ID: 3, CompanyID: 2, Billed: true}},
			parent:  parent,
			wantErr: ErrOrderAlreadyBilled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateOrdersForBilling(tc.company, tc.orders, tc.parent)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
