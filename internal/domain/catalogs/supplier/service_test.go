package supplier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/store"
	"stockroom/internal/domain"
	"stockroom/internal/infrastructure/storage"
	"stockroom/internal/infrastructure/storage/memory"
)

func TestSupplier_Validate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		s       Supplier
		wantErr bool
	}{
		{"minimal", Supplier{LegalName: "Green Farm Ltd"}, false},
		{"full", Supplier{LegalName: "Green Farm Ltd", Email: "orders@greenfarm.co.uk", PhoneNumber: "+44 (20) 7946-0958"}, false},
		{"missing name", Supplier{Email: "a@b.io"}, true},
		{"bad email", Supplier{LegalName: "X", Email: "orders@greenfarm"}, true},
		{"letters in phone", Supplier{LegalName: "X", PhoneNumber: "call me"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate(ctx)
			if tt.wantErr {
				assert.True(t, apperror.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC) }
	svc := NewService(storage.NewCollection[*Supplier](memory.New(), store.KeySuppliers, storage.WithClock(clock)))

	s := &Supplier{LegalName: "  Green Farm Ltd ", ContactPerson: "Ann"}
	require.NoError(t, svc.Create(ctx, s))
	assert.Equal(t, "Green Farm Ltd", s.LegalName)
	assert.Equal(t, clock(), s.LastUpdated)

	page, err := svc.List(ctx, domain.ListFilter{Search: "ann"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)

	require.NoError(t, svc.Delete(ctx, s.ID))
	_, err = svc.GetByID(ctx, s.ID)
	assert.True(t, apperror.IsNotFound(err))
}
