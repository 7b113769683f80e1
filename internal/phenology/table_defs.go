package phenology

import (
	"goPhenologyRecords/pkg/csvdb"
	"goPhenologyRecords/pkg/sqlstore"
)

var (
	// bulkLoadColumns maps the raw CSV headers onto the columns created by the first load.
	bulkLoadColumns = []csvdb.ColumnMapping{
		{From: "Species", To: "Species"},
		{From: "Year", To: "Year_"},
		{From: "Julian Day of Year", To: "Julian_Day_of_Year"},
		{From: "Plant Identification Number", To: "Plant_Identification_Number"},
		{From: "Number of Buds", To: "Number_of_Buds"},
		{From: "Number of Flowers", To: "Number_of_Flowers"},
		{From: "Number of Flowers that have Reached Maturity", To: "Number_of_Flowers_that_have_Reached_Maturity"},
		{From: "Observer Initials", To: "Observer_Initials"},
		{From: "Observer Comments", To: "Observer_Comments"},
	}
)

func bulkLoadSchema() []sqlstore.Column {
	cols := make([]sqlstore.Column, len(bulkLoadColumns))
	for i, m := range bulkLoadColumns {
		cols[i] = sqlstore.Column{Name: m.To}
	}
	return cols
}
