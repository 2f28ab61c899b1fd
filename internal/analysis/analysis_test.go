package analysis

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbmap/internal/graph"
	"dbmap/internal/schema"
)

func blogSchema() *schema.Schema {
	return &schema.Schema{
		Database: "test",
		Tables: []schema.Table{
			{Name: "users", Columns: []schema.Column{
				{Name: "id", Type: "integer", IsPrimary: true},
				{Name: "name", Type: "text", IsNullable: true},
			}},
			{Name: "posts", Columns: []schema.Column{
				{Name: "id", Type: "integer", IsPrimary: true},
				{Name: "user_id", Type: "integer", IsForeign: true},
			}},
		},
		Relationships: []schema.Relationship{
			{
				SourceTable: "posts", SourceColumn: "user_id",
				TargetTable: "users", TargetColumn: "id",
				FromCardinality: schema.One, ToCardinality: schema.Many,
			},
		},
	}
}

func TestAnalyzeBlogSchema(t *testing.T) {
	r := Analyze(blogSchema())

	assert.Equal(t, 2, r.Stats.TableCount)
	assert.Equal(t, 4, r.Stats.ColumnCount)
	assert.Equal(t, 1, r.Stats.RelationshipCount)
	assert.Equal(t, 2, r.Stats.PrimaryKeyCount)
	assert.Equal(t, 1, r.Stats.ForeignKeyCount)
	assert.Equal(t, 2.0, r.Stats.AvgColumnsPerTable)

	assert.Equal(t, 1, r.Relationships.TypeCounts[schema.OneToMany])
	assert.Zero(t, r.Relationships.SelfReferencing)

	assert.Equal(t, 1, r.Connectivity.ComponentCount)
	require.Len(t, r.Connectivity.Components, 1)
	assert.ElementsMatch(t, []string{"users", "posts"}, r.Connectivity.Components[0])
	assert.Empty(t, r.Connectivity.IsolatedTables)
}

func TestAnalyzeIsolatedTables(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"},
	}}
	r := Analyze(s)

	assert.Zero(t, r.Connectivity.Density)
	assert.Len(t, r.Connectivity.IsolatedTables, 3)
	require.Len(t, r.Groups, 3)
	for _, g := range r.Groups {
		require.Len(t, g.Tables, 1)
		assert.Equal(t, "Isolated: "+g.Tables[0], g.Name)
	}
}

func TestGroupsMatchComponents(t *testing.T) {
	s := blogSchema()
	s.Tables = append(s.Tables, schema.Table{Name: "settings"})
	r := Analyze(s)

	assert.Equal(t, r.Connectivity.ComponentCount, len(r.Groups))

	seen := make(map[string]int)
	for _, g := range r.Groups {
		for _, name := range g.Tables {
			seen[name]++
		}
	}
	for _, table := range s.Tables {
		assert.Equal(t, 1, seen[table.Name], "table %s grouped once", table.Name)
	}
}

func TestGroupNaming(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "auth_users"}, {Name: "auth_roles"},
		},
		Relationships: []schema.Relationship{
			{SourceTable: "auth_users", TargetTable: "auth_roles"},
		},
	}
	r := Analyze(s)
	require.Len(t, r.Groups, 1)
	assert.Equal(t, "Auth group", r.Groups[0].Name)
	assert.Equal(t, 1, r.Groups[0].InternalRelationships)
	assert.NotEmpty(t, r.Groups[0].Color)
}

func TestGroupColorsCycle(t *testing.T) {
	var tables []schema.Table
	for i := 0; i < len(groupPalette)+2; i++ {
		tables = append(tables, schema.Table{Name: fmt.Sprintf("t%d", i)})
	}
	r := Analyze(&schema.Schema{Tables: tables})

	require.Len(t, r.Groups, len(groupPalette)+2)
	assert.Equal(t, r.Groups[0].Color, r.Groups[len(groupPalette)].Color)
}

func TestShortestPathsSymmetricAndTriangular(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
		},
		Relationships: []schema.Relationship{
			{SourceTable: "a", TargetTable: "b"},
			{SourceTable: "b", TargetTable: "c"},
			{SourceTable: "c", TargetTable: "d"},
		},
	}
	r := Analyze(s)

	names := []string{"a", "b", "c", "d", "e"}
	for _, i := range names {
		for _, j := range names {
			dij, ok := r.Connectivity.Distance(i, j)
			require.True(t, ok)
			dji, _ := r.Connectivity.Distance(j, i)
			assert.Equal(t, dij, dji, "dist(%s,%s) symmetric", i, j)
			for _, k := range names {
				dik, _ := r.Connectivity.Distance(i, k)
				dkj, _ := r.Connectivity.Distance(k, j)
				assert.LessOrEqual(t, dij, dik+dkj)
			}
		}
	}

	de, _ := r.Connectivity.Distance("a", "e")
	assert.True(t, math.IsInf(de, 1), "unreachable pair is infinite")
	assert.Equal(t, 3, r.Connectivity.Diameter)
}

func TestClusteringCoefficient(t *testing.T) {
	// Triangle a-b-c: every node's two neighbors are connected.
	s := &schema.Schema{
		Tables: []schema.Table{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Relationships: []schema.Relationship{
			{SourceTable: "a", TargetTable: "b"},
			{SourceTable: "b", TargetTable: "c"},
			{SourceTable: "c", TargetTable: "a"},
		},
	}
	r := Analyze(s)
	assert.Equal(t, 1.0, r.Connectivity.AvgClustering)
	assert.Equal(t, 1.0, r.Connectivity.Density)
}

func TestHubTables(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "hub"}, {Name: "s1"}, {Name: "s2"}, {Name: "s3"}, {Name: "s4"},
		},
		Relationships: []schema.Relationship{
			{SourceTable: "s1", TargetTable: "hub"},
			{SourceTable: "s2", TargetTable: "hub"},
			{SourceTable: "s3", TargetTable: "hub"},
			{SourceTable: "s4", TargetTable: "hub"},
		},
	}
	r := Analyze(s)
	assert.Equal(t, []string{"hub"}, r.Connectivity.HubTables)
}

func TestRelationshipComplexity(t *testing.T) {
	tests := []struct {
		name string
		rel  schema.Relationship
		want int
	}{
		{
			"plain one-to-many",
			schema.Relationship{SourceTable: "a", TargetTable: "b", FromCardinality: schema.One, ToCardinality: schema.Many},
			1,
		},
		{
			"many-to-many",
			schema.Relationship{SourceTable: "a", TargetTable: "b", FromCardinality: schema.Many, ToCardinality: schema.Many},
			3,
		},
		{
			"self reference",
			schema.Relationship{SourceTable: "a", TargetTable: "a", FromCardinality: schema.One, ToCardinality: schema.Many},
			2,
		},
		{
			"composite key of three",
			schema.Relationship{SourceTable: "a", TargetTable: "b", FromCardinality: schema.One, ToCardinality: schema.Many, CompositeColumns: []string{"x", "y", "z"}},
			3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &schema.Schema{
				Tables:        []schema.Table{{Name: "a"}, {Name: "b"}},
				Relationships: []schema.Relationship{tt.rel},
			}
			r := Analyze(s)
			require.Len(t, r.Relationships.Details, 1)
			assert.Equal(t, tt.want, r.Relationships.Details[0].Complexity)
		})
	}
}

func TestJunctionTableHeuristic(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{Name: "users", Columns: []schema.Column{{Name: "id", IsPrimary: true}}},
			{Name: "roles", Columns: []schema.Column{{Name: "id", IsPrimary: true}}},
			{Name: "user_roles", Columns: []schema.Column{
				{Name: "user_id", IsForeign: true},
				{Name: "role_id", IsForeign: true},
			}},
		},
		Relationships: []schema.Relationship{
			{SourceTable: "user_roles", SourceColumn: "user_id", TargetTable: "users", TargetColumn: "id"},
			{SourceTable: "user_roles", SourceColumn: "role_id", TargetTable: "roles", TargetColumn: "id"},
		},
	}
	r := Analyze(s)

	byName := make(map[string]TableMetric)
	for _, m := range r.Tables {
		byName[m.Name] = m
	}
	assert.True(t, byName["user_roles"].IsJunction)
	assert.False(t, byName["users"].IsJunction)
	assert.Contains(t, r.Quality.Patterns.JunctionTables, "user_roles")
}

func TestTableComplexityScore(t *testing.T) {
	s := blogSchema()
	r := Analyze(s)

	byName := make(map[string]TableMetric)
	for _, m := range r.Tables {
		byName[m.Name] = m
	}
	// posts: 2 columns, 1 PK, 1 FK, 1 relationship (outgoing).
	assert.Equal(t, 0.5*2+1+1.5+2*1, byName["posts"].Complexity)
	assert.Equal(t, 1, byName["posts"].Outgoing)
	assert.Equal(t, 1, byName["users"].Incoming)
}

func TestCyclomaticComplexity(t *testing.T) {
	tests := []struct {
		name          string
		relationships []schema.Relationship
		want          int
	}{
		{"acyclic", []schema.Relationship{
			{SourceTable: "a", TargetTable: "b"},
			{SourceTable: "b", TargetTable: "c"},
		}, 1},
		{"one cycle", []schema.Relationship{
			{SourceTable: "a", TargetTable: "b"},
			{SourceTable: "b", TargetTable: "c"},
			{SourceTable: "c", TargetTable: "a"},
		}, 2},
		{"self loop", []schema.Relationship{
			{SourceTable: "a", TargetTable: "a"},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &schema.Schema{
				Tables:        []schema.Table{{Name: "a"}, {Name: "b"}, {Name: "c"}},
				Relationships: tt.relationships,
			}
			r := Analyze(s)
			assert.Equal(t, tt.want, r.Complexity.Cyclomatic)
		})
	}
}

func TestComplexityClass(t *testing.T) {
	r := Analyze(blogSchema())
	assert.Equal(t, "Low", r.Complexity.Class)
}

func TestNamingClassification(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"user_id", "snake_case"},
		{"userId", "camelCase"},
		{"UserAccount", "PascalCase"},
		{"users", "lowercase"},
		{"User_account", "mixed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyName(tt.name), tt.name)
	}
}

func TestNormalizationPenalties(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "contacts", Columns: []schema.Column{
			{Name: "phone1"}, {Name: "phone2"}, {Name: "phone3"},
		}},
	}}
	r := Analyze(s)
	assert.Equal(t, 70.0, r.Quality.Normalization)
}

func TestIntegrityPenalties(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{{Name: "a", Columns: []schema.Column{{Name: "x"}}}},
		Relationships: []schema.Relationship{
			{SourceTable: "a", SourceColumn: "x", TargetTable: "a", TargetColumn: "x"},
		},
	}
	r := Analyze(s)
	// Missing cardinality and an ambiguous self reference.
	assert.Equal(t, 75.0, r.Quality.Integrity)
}

func TestQualityIssues(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "no_pk", Columns: []schema.Column{{Name: "data"}}},
		{Name: "dangling", Columns: []schema.Column{
			{Name: "id", IsPrimary: true},
			{Name: "other_id", IsForeign: true},
		}},
	}}
	r := Analyze(s)

	types := make(map[string]int)
	for _, issue := range r.Quality.Issues {
		types[issue.Type]++
	}
	assert.Equal(t, 1, types["missing_primary_key"])
	assert.Equal(t, 1, types["dangling_foreign_key"])
}

func TestInheritanceGroups(t *testing.T) {
	shared := []schema.Column{
		{Name: "id"}, {Name: "name"}, {Name: "created_at"},
	}
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "cars", Columns: shared},
		{Name: "trucks", Columns: shared},
		{Name: "unrelated", Columns: []schema.Column{{Name: "code"}}},
	}}
	r := Analyze(s)

	require.Len(t, r.Quality.Patterns.InheritanceGroups, 1)
	assert.ElementsMatch(t, []string{"cars", "trucks"}, r.Quality.Patterns.InheritanceGroups[0])
}

func TestAuditPattern(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "orders", Columns: []schema.Column{
			{Name: "id", IsPrimary: true},
			{Name: "created_at"},
			{Name: "updated_at"},
		}},
	}}
	r := Analyze(s)
	assert.Equal(t, []string{"orders"}, r.Quality.Patterns.AuditTables)
}

func TestGrades(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "A"}, {90, "A"}, {85, "B"}, {72, "C"}, {61, "D"}, {30, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, grade(tt.score))
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	s := blogSchema()
	a := Analyze(s)
	b := Analyze(s)

	// Everything but the snapshot identity must match.
	b.ID = a.ID
	b.GeneratedAt = a.GeneratedAt
	assert.Equal(t, a, b)
}

func TestAnalyzeDegradedInput(t *testing.T) {
	assert.NotPanics(t, func() {
		r := Analyze(nil)
		assert.Zero(t, r.Stats.TableCount)
		assert.Empty(t, r.Groups)
	})

	assert.NotPanics(t, func() {
		// Relationship pointing nowhere, table with no columns.
		r := Analyze(&schema.Schema{
			Tables: []schema.Table{{Name: "empty"}},
			Relationships: []schema.Relationship{
				{SourceTable: "ghost", TargetTable: "empty"},
			},
		})
		assert.Equal(t, 1, r.Stats.TableCount)
		assert.Equal(t, 1, r.Connectivity.ComponentCount)
	})
}

func TestShortestPathsSkippedAboveCap(t *testing.T) {
	tables := make([]schema.Table, shortestPathTableLimit+1)
	for i := range tables {
		tables[i] = schema.Table{Name: fmt.Sprintf("t%d", i)}
	}
	r := Analyze(&schema.Schema{Tables: tables})

	assert.True(t, r.Connectivity.ShortestPathsSkipped)
	assert.Zero(t, r.Connectivity.Diameter)
	assert.Zero(t, r.Connectivity.AvgPathLength)

	d, ok := r.Connectivity.Distance("t0", "t1")
	assert.False(t, ok, "no distances computed above the cap")
	assert.True(t, math.IsInf(d, 1))
}

func TestPatternScanSkippedAboveCap(t *testing.T) {
	// Identical column sets would all cluster below the cap.
	cols := []schema.Column{{Name: "id"}, {Name: "name"}}
	tables := make([]schema.Table, patternTableLimit+1)
	for i := range tables {
		tables[i] = schema.Table{Name: fmt.Sprintf("t%d", i), Columns: cols}
	}
	assert.Nil(t, inheritanceGroups(&schema.Schema{Tables: tables}))
}

func TestConnectivityMatchesGraph(t *testing.T) {
	s := blogSchema()
	g := graph.Build(s.Tables, s.Relationships)
	r := Analyze(s)
	assert.Equal(t, len(g.Components()), r.Connectivity.ComponentCount)
}
