// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
)

// Category is a reservation category as published in the JoSAA cutoff lists.
type Category string

// Known reservation categories.
const (
	CategoryOpen      Category = "OPEN"
	CategoryOpenPwD   Category = "OPEN (PwD)"
	CategoryOBCNCL    Category = "OBC-NCL"
	CategoryOBCNCLPwD Category = "OBC-NCL (PwD)"
	CategoryEWS       Category = "EWS"
	CategoryEWSPwD    Category = "EWS (PwD)"
	CategorySC        Category = "SC"
	CategorySCPwD     Category = "SC (PwD)"
	CategoryST        Category = "ST"
	CategorySTPwD     Category = "ST (PwD)"
)

// CollegeType identifies the institute system a record belongs to.
type CollegeType string

// Known college types.
const (
	CollegeIIT   CollegeType = "IIT"
	CollegeNIT   CollegeType = "NIT"
	CollegeIIIT  CollegeType = "IIIT"
	CollegeGFTI  CollegeType = "GFTI"
	CollegeOther CollegeType = "OTHER"
)

// Wildcard matches any college type or branch in a query.
const Wildcard = "ALL"

// ParseCategory canonicalizes a raw category string. Matching is
// case-insensitive and tolerant of surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Categories() {
		if strings.ToUpper(string(c)) == needle {
			return c, true
		}
	}
	return "", false
}

// ParseCollegeType canonicalizes a raw college type string.
func ParseCollegeType(s string) (CollegeType, bool) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range CollegeTypes() {
		if string(t) == needle {
			return t, true
		}
	}
	return "", false
}

// Categories returns all known reservation categories in display order.
func Categories() []Category {
	return []Category{
		CategoryOpen, CategoryOpenPwD,
		CategoryOBCNCL, CategoryOBCNCLPwD,
		CategoryEWS, CategoryEWSPwD,
		CategorySC, CategorySCPwD,
		CategoryST, CategorySTPwD,
	}
}

// CollegeTypes returns all known college types in display order.
func CollegeTypes() []CollegeType {
	return []CollegeType{CollegeIIT, CollegeNIT, CollegeIIIT, CollegeGFTI, CollegeOther}
}

// HistoricalRecord is one row of the reference cutoff dataset: the opening
// and closing rank admitted to an institute/branch/category combination in a
// single counseling round. Records are immutable once loaded.
type HistoricalRecord struct {
	Institute   string
	Branch      string
	Location    string
	Category    Category
	CollegeType CollegeType
	RoundNo     int
	OpeningRank int
	ClosingRank int
}

// Key identifies the dataset's primary key tuple. At most one record
// exists per key; on duplicate input rows the last one wins.
func (r HistoricalRecord) Key() string {
	return strings.ToLower(r.Institute) + "|" + strings.ToLower(r.Branch) + "|" +
		string(r.Category) + "|" + strconv.Itoa(r.RoundNo)
}
