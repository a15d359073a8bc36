package global

var (
	CfgFile string
	Verbose bool
	NoColor bool
	NoStyle bool
)
