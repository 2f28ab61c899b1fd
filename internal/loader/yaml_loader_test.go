package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbmap/internal/schema"
	"dbmap/pkg/config"
)

const sampleYAML = `
database: blog
tables:
  - name: users
    columns:
      - name: id
        type: integer
        primary: true
      - name: email
        type: text
        unique: true
        indexed: true
  - name: posts
    columns:
      - name: id
        type: integer
        primary: true
      - name: user_id
        type: integer
relationships:
  - from_table: posts
    from_column: user_id
    to_table: users
    to_column: id
    from_cardinality: "1"
    to_cardinality: many
`

func TestParseSchemaYAML(t *testing.T) {
	s, err := ParseSchemaYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "blog", s.Database)
	require.Len(t, s.Tables, 2)
	require.Len(t, s.Relationships, 1)

	users := s.Table("users")
	require.NotNil(t, users)
	assert.True(t, users.Columns[0].IsPrimary)
	assert.True(t, users.Columns[1].IsUnique)
	assert.True(t, users.Columns[1].IsIndexed)

	rel := s.Relationships[0]
	assert.Equal(t, "posts", rel.SourceTable)
	assert.Equal(t, schema.OneToMany, rel.Type())
}

func TestParseMarksForeignColumns(t *testing.T) {
	s, err := ParseSchemaYAML([]byte(sampleYAML))
	require.NoError(t, err)

	posts := s.Table("posts")
	require.NotNil(t, posts)
	col := posts.Column("user_id")
	require.NotNil(t, col)
	assert.True(t, col.IsForeign, "relationship source column flagged foreign")
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := ParseSchemaYAML([]byte("tables: [unclosed"))
	assert.Error(t, err)
}

func TestLoadSchemaFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	s, err := LoadSchemaFromYAML(path, config.SchemaConfig{})
	require.NoError(t, err)
	assert.Len(t, s.Tables, 2)

	_, err = LoadSchemaFromYAML(filepath.Join(t.TempDir(), "missing.yaml"), config.SchemaConfig{})
	assert.Error(t, err)
}

func TestLoadAppliesTableFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	s, err := LoadSchemaFromYAML(path, config.SchemaConfig{
		ExcludeTables: []string{"users"},
	})
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "posts", s.Tables[0].Name)
	assert.Empty(t, s.Relationships, "relationships touching an excluded table are dropped")

	s, err = LoadSchemaFromYAML(path, config.SchemaConfig{
		IncludeTables: []string{"Posts"},
	})
	require.NoError(t, err)
	require.Len(t, s.Tables, 1, "include filter is case-insensitive")
	assert.Equal(t, "posts", s.Tables[0].Name)
	assert.Empty(t, s.Relationships)
}
