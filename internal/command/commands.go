// internal/command/commands.go
package command

// commands is the closed set of board verbs, in help order.
// Entries never change at runtime.
var commands = [...]Command{
	{
		Verb:     "board",
		Help:     "Display the board hardware and firmware version",
		Example:  ProgramName + " 0 board #Display vital information about board #0",
		Variants: []Variant{{Args: 0, Usage: "", Run: doBoardInfo}},
	},
	{
		Verb:     "rd",
		Help:     "Read input current value(A)",
		Example:  ProgramName + " 0 rd 2 #Read amperage of input current channel #2 on board #0",
		Variants: []Variant{{Args: 1, Usage: "<channel>", Run: doCurrentRead}},
	},
	{
		Verb:     "rmsrd",
		Help:     "Read input current RMS value(A)",
		Example:  ProgramName + " 0 rmsrd 2 #Read RMS amperage on input current channel #2 on board #0",
		Variants: []Variant{{Args: 1, Usage: "<channel>", Run: doCurrentRMSRead}},
	},
	{
		Verb:    "cal",
		Help:    "Calibrate current input channel, the calibration must be done in 2 points at min 10mA apart",
		Example: ProgramName + " 0 cal 1 5 #Calibrate the current input channel #1 on board #0 at 5A",
		Variants: []Variant{
			{Args: 2, Usage: "<channel> <value(A)|reset>", Run: doCalibrate},
		},
	},
	{
		Verb:     "calstat",
		Help:     "Display the status of the last calibration write",
		Example:  ProgramName + " 0 calstat #Display calibration status of board #0",
		Variants: []Variant{{Args: 0, Usage: "", Run: doCalibStatus}},
	},
	{
		Verb:     "rrd",
		Help:     "Read full scale for current sensor(A)",
		Example:  ProgramName + " 0 rrd 2 #Read full scale for current sensor(A) channel #2 on board #0",
		Variants: []Variant{{Args: 1, Usage: "<channel>", Run: doRangeRead}},
	},
	{
		Verb:     "rwr",
		Help:     "Write sensor range(A)",
		Example:  ProgramName + " 0 rwr 2 50 #Set the max range to +/-50A of sensor on channel #2 on board #0",
		Variants: []Variant{{Args: 2, Usage: "<channel> <value(A)>", Run: doRangeWrite}},
	},
	{
		Verb:    "trd",
		Help:    "Display the configured type of the current sensor (0 = 2.5V +/- 0.625V, 1 = 2.5V +/- 1V)",
		Example: ProgramName + " 0 trd 2 #Get the type of #2 sensor on board #0",
		Variants: []Variant{
			{Args: 1, Usage: "<channel>", Run: doSensorTypeRead},
			{Args: 0, Usage: "", Run: doSensorTypeReadAll},
		},
	},
	{
		Verb:    "twr",
		Help:    "Set the type of the sensor (0 = 2.5V +/- 0.625V, 1 = 2.5V +/- 1V)",
		Example: ProgramName + " 0 twr 2 1 #Set the HALL sensor #2 on board #0 to 2.5V +/- 1V",
		Variants: []Variant{
			{Args: 2, Usage: "<channel> <state(0/1)>", Run: doSensorTypeWrite},
			{Args: 1, Usage: "<mask>", Run: doSensorTypeWriteMask},
		},
	},
	{
		Verb:    "watch",
		Help:    "Poll every input current channel until interrupted",
		Example: ProgramName + " 0 watch 500 #Print currents of board #0 every 500ms",
		Variants: []Variant{
			{Args: 0, Usage: "", Run: doWatchDefault},
			{Args: 1, Usage: "<interval(ms)>", Run: doWatch},
		},
	},
}
