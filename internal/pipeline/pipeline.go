// Package pipeline builds MongoDB aggregation stages as values, so the
// reporting joins can be composed and unit-tested without a store.
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stage is a single aggregation stage.
type Stage = bson.D

// New assembles stages into a pipeline, skipping nil stages so callers can
// append optional stages conditionally.
func New(stages ...Stage) mongo.Pipeline {
	p := make(mongo.Pipeline, 0, len(stages))
	for _, s := range stages {
		if s != nil {
			p = append(p, s)
		}
	}
	return p
}

func Match(filter bson.M) Stage {
	return bson.D{{Key: "$match", Value: filter}}
}

func Project(fields bson.M) Stage {
	return bson.D{{Key: "$project", Value: fields}}
}

// Lookup is a left-outer join on a foreign key.
func Lookup(from, localField, foreignField, as string) Stage {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": foreignField,
		"as":           as,
	}}}
}

// LookupScoped joins with a sub-pipeline, binding localField to a pipeline
// variable and applying extra equality conditions on the foreign
// collection. It is the anti-join building block: the joined array holds
// only rows matching every condition, so `$size: 0` on it asserts absence.
func LookupScoped(from, localField, foreignField, as string, conditions bson.M) Stage {
	exprAnd := bson.A{
		bson.M{"$eq": bson.A{"$" + foreignField, "$$local"}},
	}
	match := bson.M{"$expr": bson.M{"$and": exprAnd}}
	for k, v := range conditions {
		match[k] = v
	}
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": from,
		"let":  bson.M{"local": "$" + localField},
		"pipeline": mongo.Pipeline{
			bson.D{{Key: "$match", Value: match}},
		},
		"as": as,
	}}}
}

func Unwind(path string) Stage {
	return bson.D{{Key: "$unwind", Value: "$" + path}}
}

// UnwindPreserve keeps parent rows that have no joined rows.
func UnwindPreserve(path string) Stage {
	return bson.D{{Key: "$unwind", Value: bson.M{
		"path":                       "$" + path,
		"preserveNullAndEmptyArrays": true,
	}}}
}

// GroupByID regroups unwound rows by the given id expression. Accumulator
// values come from First and Push.
func GroupByID(id interface{}, fields bson.D) Stage {
	spec := bson.D{{Key: "_id", Value: id}}
	spec = append(spec, fields...)
	return bson.D{{Key: "$group", Value: spec}}
}

func First(field string) bson.M {
	return bson.M{"$first": "$" + field}
}

func Push(field string) bson.M {
	return bson.M{"$push": "$" + field}
}

// Sort takes a bson.D so multi-key sorts keep their order.
func Sort(spec bson.D) Stage {
	return bson.D{{Key: "$sort", Value: spec}}
}

func Skip(n int64) Stage {
	return bson.D{{Key: "$skip", Value: n}}
}

func Limit(n int64) Stage {
	return bson.D{{Key: "$limit", Value: n}}
}

// Count collapses the stream into a single {field: n} document.
func Count(field string) Stage {
	return bson.D{{Key: "$count", Value: field}}
}

func AddFields(fields bson.M) Stage {
	return bson.D{{Key: "$addFields", Value: fields}}
}

// SwitchBranch is one case of a Switch expression.
type SwitchBranch struct {
	Case interface{}
	Then interface{}
}

// Switch builds a $switch conditional field derivation.
func Switch(branches []SwitchBranch, defaultValue interface{}) bson.M {
	cases := make(bson.A, 0, len(branches))
	for _, b := range branches {
		cases = append(cases, bson.M{"case": b.Case, "then": b.Then})
	}
	return bson.M{"$switch": bson.M{
		"branches": cases,
		"default":  defaultValue,
	}}
}
