package store

// DateLayout is the key format of a study log.
const DateLayout = "2006-01-02"

// MaxHours caps a single day's log.
const MaxHours = 24.0

// StudyLog is one date-keyed study record. At most one exists per date.
type StudyLog struct {
	Date  string
	Hours float64
	Notes string
}

// Goals are hour targets per period.
type Goals struct {
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
	Yearly  int `json:"yearly"`
}

// DefaultGoals is used whenever stored goals are missing or corrupt.
var DefaultGoals = Goals{Weekly: 40, Monthly: 160, Yearly: 2000}

type HeatmapTheme string

const (
	ThemeGreen  HeatmapTheme = "green"
	ThemeBlue   HeatmapTheme = "blue"
	ThemeOrange HeatmapTheme = "orange"
	ThemePurple HeatmapTheme = "purple"
)

var Themes = []HeatmapTheme{ThemeGreen, ThemeBlue, ThemeOrange, ThemePurple}

func (t HeatmapTheme) Valid() bool {
	for _, th := range Themes {
		if th == t {
			return true
		}
	}
	return false
}

// Preferences are small UI settings persisted next to the logs.
type Preferences struct {
	SoundEnabled bool
	HeatmapTheme HeatmapTheme
}

var DefaultPreferences = Preferences{SoundEnabled: true, HeatmapTheme: ThemeGreen}

type Setting struct {
	Key   string
	Value string
}
