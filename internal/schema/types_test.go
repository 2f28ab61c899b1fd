package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipType(t *testing.T) {
	tests := []struct {
		name string
		from Cardinality
		to   Cardinality
		want RelationType
	}{
		{"one to one", One, One, OneToOne},
		{"one to many", One, Many, OneToMany},
		{"many to one", Many, One, ManyToOne},
		{"many to many", Many, Many, ManyToMany},
		{"star treated as many", One, Any, OneToMany},
		{"both stars", Any, Any, ManyToMany},
		{"missing cardinality", "", Many, Unknown},
		{"garbage cardinality", Cardinality("2"), One, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := Relationship{FromCardinality: tt.from, ToCardinality: tt.to}
			assert.Equal(t, tt.want, rel.Type())
		})
	}
}

func TestSelfReferencing(t *testing.T) {
	assert.True(t, Relationship{SourceTable: "emp", TargetTable: "emp"}.SelfReferencing())
	assert.False(t, Relationship{SourceTable: "emp", TargetTable: "dept"}.SelfReferencing())
}

func TestTableLookups(t *testing.T) {
	s := &Schema{Tables: []Table{
		{Name: "users", Columns: []Column{
			{Name: "id", IsPrimary: true},
			{Name: "org_id", IsForeign: true},
			{Name: "email"},
		}},
	}}

	table := s.Table("users")
	assert.NotNil(t, table)
	assert.Nil(t, s.Table("missing"))

	assert.NotNil(t, table.Column("email"))
	assert.Nil(t, table.Column("missing"))

	assert.Len(t, table.PrimaryKeys(), 1)
	assert.Len(t, table.ForeignKeys(), 1)
}
