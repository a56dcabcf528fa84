package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_Insert(t *testing.T) {
	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		expected bool
	}{
		{
			name:     "New like",
			rows:     sqlmock.NewRows([]string{"id"}).AddRow(5),
			expected: true,
		},
		{
			name:     "Already liked",
			rows:     sqlmock.NewRows([]string{"id"}),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewLikeRepository(db)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes" ("user_id","post_id","created_at") VALUES ($1,$2,$3) ON CONFLICT DO NOTHING RETURNING "id"`)).
				WithArgs(1, 2, sqlmock.AnyArg()).
				WillReturnRows(tt.rows)
			mock.ExpectCommit()

			inserted, err := repo.Insert(context.Background(), 1, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikeRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_LikedPostIDs_EmptyInputSkipsQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	ids, err := repo.LikedPostIDs(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustCounter_SQL(t *testing.T) {
	t.Run("Increment", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "like_count"=like_count + $1 WHERE id = $2`)).
			WithArgs(1, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.AdjustLikeCount(context.Background(), 7, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Decrement floors at zero", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comment_count"=CASE WHEN comment_count > $1 THEN comment_count - $2 ELSE 0 END WHERE id = $3`)).
			WithArgs(3, 3, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.AdjustCommentCount(context.Background(), 7, -3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero delta is a no-op", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		require.NoError(t, repo.AdjustPostCount(context.Background(), 7, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
