package application

const (
	// Match defaults applied on create
	defaultMinutesPerQuarter = 10
	defaultTotalQuarters     = 4
	defaultTeamFoulLimit     = 5
	defaultPlayerFoulLimit   = 5

	// Match rule ranges
	minMinutesPerQuarter = 1
	maxMinutesPerQuarter = 15
	minTotalQuarters     = 4
	minFoulLimit         = 1
	maxFoulLimit         = 255
	maxVenueLength       = 100

	// Team and player limits
	maxTeamNameLength     = 100
	maxAbbreviationLength = 10
	maxCityLength         = 50
	maxPlayerNameLength   = 100
	maxJerseyNumber       = 99

	// Score ledger
	manualAdjustmentDescription = "manual adjustment"

	// Match lists
	historyLimit       = 500
	latestMatchesLimit = 5

	// Monthly stats
	minStatsYear = 2000
	maxStatsYear = 2100

	// Excel report configuration
	excelSheetName  = "Historial"
	excelDateFormat = "2006-01-02 15:04"

	// Google Sheets configuration
	defaultSheetTitle = "Marcador - Historial"
	defaultClearRange = "A1:Z1000"
	defaultStartCell  = "A1"
)

var playerPositions = []string{"PG", "SG", "SF", "PF", "C"}
