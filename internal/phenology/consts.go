package phenology

const (
	CDefaultCsvPath   = "Quttinirpaaq_NP_Tundra_Plant_Phenology_2016-2017_data_1.csv"
	CDefaultDbPath    = "records.db"
	CDefaultTableName = "records"
	CDefaultEncoding  = "latin-1"
	CDefaultBanner    = "Created by: student name"

	// the first data row repeats units, not an observation
	cSkipRows    = 1
	cWorkingRows = 10
)

const (
	cChoiceReload = iota + 1
	cChoiceAdd
	cChoiceDisplay
	cChoiceEdit
	cChoiceDelete
	cChoiceExit
)
