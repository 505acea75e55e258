package team

//Jersey color ranges in OpenCV HSV
var (
	white    = HSV{H: 0, S: 0, V: 170}
	whiteTop = HSV{H: 180, S: 40, V: 255}

	black    = HSV{H: 0, S: 0, V: 0}
	blackTop = HSV{H: 180, S: 255, V: 60}

	blue    = HSV{H: 100, S: 80, V: 50}
	blueTop = HSV{H: 130, S: 255, V: 255}

	skyBlue    = HSV{H: 85, S: 40, V: 120}
	skyBlueTop = HSV{H: 105, S: 255, V: 255}

	//Lower.H > Upper.H, wraps around 180
	red    = HSV{H: 170, S: 100, V: 80}
	redTop = HSV{H: 10, S: 255, V: 255}

	purple    = HSV{H: 130, S: 60, V: 40}
	purpleTop = HSV{H: 165, S: 255, V: 255}
)

func WhiteFilter(name string) Filter   { return Filter{Name: name, Lower: white, Upper: whiteTop} }
func BlackFilter(name string) Filter   { return Filter{Name: name, Lower: black, Upper: blackTop} }
func BlueFilter(name string) Filter    { return Filter{Name: name, Lower: blue, Upper: blueTop} }
func SkyBlueFilter(name string) Filter { return Filter{Name: name, Lower: skyBlue, Upper: skyBlueTop} }
func RedFilter(name string) Filter     { return Filter{Name: name, Lower: red, Upper: redTop} }
func PurpleFilter(name string) Filter  { return Filter{Name: name, Lower: purple, Upper: purpleTop} }

//FiltersForMatch returns the jersey filters of a known match, named after the teams. Unknown keys get a white home side and a black away side.
func FiltersForMatch(key string) []Filter {
	switch key {
	case "chelsea_man_city":
		return []Filter{BlueFilter("Chelsea"), SkyBlueFilter("Man City")}
	case "real_madrid_barcelona":
		return []Filter{WhiteFilter("Real Madrid"), PurpleFilter("Barcelona")}
	case "france_croatia":
		return []Filter{BlueFilter("France"), RedFilter("Croatia")}
	default:
		return []Filter{WhiteFilter("Home"), BlackFilter("Away")}
	}
}
