package bridge

var (
	FixupConfigs = fixupConfigs
	FixupResults = fixupResults
)
