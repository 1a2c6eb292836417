package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "github.com/feastline/order-pipeline/internal/db/mocks"
	"github.com/feastline/order-pipeline/internal/repository"
	"github.com/feastline/order-pipeline/internal/repository/postgresql"
)

func TestOrderRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("order found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		testOrder := &repository.Order{
			ID:             "order-123",
			UserID:         "user-456",
			RestaurantID:   "rest-789",
			RestaurantName: "Pizza Corner",
			TotalAmount:    42.5,
			Status:         repository.StatusNew,
			PaymentMethod:  "Cash",
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(testOrder.ID)).
			DoAndReturn(func(_ context.Context, dest *repository.Order, _ string, _ string) error {
				*dest = *testOrder
				return nil
			})

		order, err := repo.GetByID(ctx, testOrder.ID)
		assert.NoError(t, err)
		assert.Equal(t, testOrder, order)
	})

	t.Run("order not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("missing")).
			Return(fmt.Errorf("scany: query one result row: %w", pgx.ErrNoRows))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("order-123")).
			Return(expectedErr)

		_, err := repo.GetByID(ctx, "order-123")
		assert.Equal(t, expectedErr, err)
	})
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(repository.StatusPreparing),
			gomock.Any(),
			gomock.Eq("order-123"),
		).Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateStatus(ctx, "order-123", repository.StatusPreparing)
		assert.NoError(t, err)
	})

	t.Run("no such order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateStatus(ctx, "missing", repository.StatusPreparing)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOrderRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.UpdateStatus(ctx, "order-123", repository.StatusDelivered)
		assert.Equal(t, expectedErr, err)
	})
}
