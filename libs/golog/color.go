package golog

type color string

const (
	colorNone    color = ""
	colorReset   color = "\033[0m"
	colorBoldRed color = "\033[1;31m"
	colorRed     color = "\033[0;31m"
	colorYellow  color = "\033[0;33m"
	colorGreen   color = "\033[0;32m"
	colorGray    color = "\033[1;30m"
)

var levelColors = map[Level]color{
	CRIT:  colorBoldRed,
	ERR:   colorRed,
	WARN:  colorYellow,
	INFO:  colorGreen,
	DEBUG: colorGray,
}
