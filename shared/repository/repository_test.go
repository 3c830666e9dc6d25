package repository

import (
	"context"
	"salonbook/infras/otel/mocks"
	"salonbook/shared/dto"
	"salonbook/shared/model"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parentRow struct {
	ID     string `db:"id"`
	Status string `db:"status"`
	model.Metadata
}

type joinedRow struct {
	parentRow
	ChildName *string `column:"name" db:"child_name" table:"children"`
}

func (joinedRow) GetJoinQuery() string {
	return "LEFT JOIN children ON children.parent_id = parents.id"
}

func TestNewRepository_Columns(t *testing.T) {
	repo := NewRepository[joinedRow]("parent", "parents", "id", nil, mocks.NewOtel())

	assert.Equal(t, []string{"id", "status", "created_at", "updated_at", "created_by", "updated_by"}, repo.InsertColumns)
	assert.Equal(t, "LEFT JOIN children ON children.parent_id = parents.id", repo.join)

	assert.Equal(t,
		"parents.id, parents.status, parents.created_at, parents.updated_at, parents.created_by, parents.updated_by, children.name AS child_name",
		repo.selectColumns(),
	)
	assert.Equal(t, "parents.id, parents.status", repo.selectColumns("id", "status"))
}

func TestRepository_Statements(t *testing.T) {
	repo := NewRepository[parentRow]("parent", "parents", "id", nil, mocks.NewOtel())

	assert.Empty(t, repo.join)

	assert.Equal(t,
		"INSERT INTO parents (id, status, created_at, updated_at, created_by, updated_by) "+
			"VALUES (:id, :status, :created_at, :updated_at, :created_by, :updated_by)",
		repo.insertStatement(),
	)

	where, args := repo.BuildWhereClause(dto.NewFilterGroup(
		dto.Filter{Field: "id", Value: "p-1", Operator: dto.FilterOperatorEq, Table: "parents"},
	))
	assert.Equal(t, "WHERE (parents.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "p-1"}, args)

	assert.Equal(t,
		"UPDATE parents SET status = :status, updated_at = :updated_at WHERE (parents.id = :id)",
		repo.updateStatement(map[string]any{"updated_at": "now", "status": "done"}, where),
	)

	assert.Equal(t,
		"SELECT parents.id, parents.status FROM parents WHERE (parents.id = :id) LIMIT :limit",
		repo.selectStatement(where, "", "LIMIT :limit", "id", "status"),
	)

	emptyWhere, emptyArgs := repo.BuildWhereClause(dto.FilterGroup{})
	assert.Empty(t, emptyWhere)
	assert.NotNil(t, emptyArgs)
}

func TestBindNamed(t *testing.T) {
	ext := sqlx.NewDb(nil, "postgres")

	query, values, err := bindNamed(ext, "SELECT id FROM parents WHERE status = :status AND id = :id", map[string]any{
		"id":     "p-1",
		"status": "open",
	})

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM parents WHERE status = $1 AND id = $2", query)
	assert.Equal(t, []any{"open", "p-1"}, values)
}

func TestRepository_WriteWithoutFilter(t *testing.T) {
	repo := NewRepository[parentRow]("parent", "parents", "id", nil, mocks.NewOtel())

	assert.ErrorIs(t, repo.Delete(context.Background(), dto.FilterGroup{}), errRequiredFilter)
	_, err := repo.Update(context.Background(), map[string]any{"status": "x"}, dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFilter)
}

func TestRepository_SortColumn(t *testing.T) {
	repo := NewRepository[joinedRow]("parent", "parents", "id", nil, mocks.NewOtel())

	tests := []struct {
		name   string
		sortBy string
		want   string
		wantOK bool
	}{
		{name: "own column is qualified", sortBy: "created_at", want: "parents.created_at", wantOK: true},
		{name: "joined column uses alias", sortBy: "child_name", want: "child_name", wantOK: true},
		{name: "unknown column is rejected", sortBy: "1; DROP TABLE parents", wantOK: false},
		{name: "empty is rejected", sortBy: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := repo.sortColumn(tt.sortBy)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
