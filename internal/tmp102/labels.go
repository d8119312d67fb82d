package tmp102

// Annotation label tables, ordered longest first. The composer appends the
// last two entries of a table as the short fallback renderings, so every
// table ends with its tersest forms.

// registerLabels names the register-word annotations on the registers row.
var registerLabels = map[Register][]string{
	RegTemperature: {"Temperature register", "Temperature", "Temp", "T"},
	RegConfig:      {"Configuration register", "Configuration", "Conf", "Cfg", "C"},
	RegTLow:        {"Low alert register", "Low alert", "Tlow", "L"},
	RegTHigh:       {"High alert register", "High alert", "Thigh", "H"},
}

// infoLabels names the info-row summaries for temperature-bearing
// registers.
var infoLabels = map[Register][]string{
	RegTemperature: {"Measured temperature", "Temperature", "Temp", "T"},
	RegTLow:        {"Low temperature limit", "Low limit", "Tlow", "L"},
	RegTHigh:       {"High temperature limit", "High limit", "Thigh", "H"},
}

// Bit-level label tables for the bits row.
var (
	reservedLabels   = []string{"Reserved bit", "Reserved", "Rsvd", "R"}
	dataBitLabels    = []string{"Data bit", "Data", "D"}
	extendedLabels   = []string{"Extended mode bit", "Extended mode", "EM", "E"}
	alertLabels      = []string{"Alert bit", "Alert", "AL", "A"}
	rateLabels       = []string{"Conversion rate bits", "Conversion rate", "Rate", "R"}
	shutdownLabels   = []string{"Shutdown mode", "Shutdown", "Shtd", "SD", "S"}
	thermostatLabels = []string{"Thermostat mode", "Thermostat", "TMode", "TM", "T"}
	polarityLabels   = []string{"Alert polarity", "Polarity", "Pol", "P"}
	faultLabels      = []string{"Consecutive faults", "Faults", "Flts", "F"}
	resolutionLabels = []string{"Converter resolution", "Resolution", "Res", "R"}
	oneShotLabels    = []string{"One-shot conversion", "Oneshot", "OS", "O"}
)

// Info- and warning-row label tables.
var (
	addressLabels     = []string{"Slave address", "Address", "Addr", "A"}
	presenceLabels    = []string{"Slave presence check", "Presence check", "Check", "P"}
	resetLabels       = []string{"General reset", "Gen reset", "Reset", "Rst", "R"}
	unknownAddrLabels = []string{"Unknown slave address", "Unknown address", "Unknown", "X"}
	powerUpConfLabels = []string{"Power-up configuration", "Power-up config", "Default", "Dflt"}
	customConfLabels  = []string{"Custom configuration", "Custom config", "Custom", "Cust"}
	registerSelLabels = []string{"Register select", "Select", "Sel"}
)

// Action words combined with labels on directional facts.
const (
	actionRead   = "Read"
	actionWrite  = "Written"
	actionSelect = "Selected"
)
