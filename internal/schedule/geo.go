package schedule

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Радиус Земли в километрах.
const earthRadiusKm = 6371.0

// Haversine возвращает расстояние по дуге большого круга между двумя
// точками (lat, lon) в километрах. Чистая функция без побочных эффектов.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RoutePoint — гео-точка визита, производная от встречи с координатами.
type RoutePoint struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address,omitempty"`
	Title     string    `json:"title,omitempty"`
	Time      time.Time `json:"time"`
}

// BuildMapURL строит ссылку на пошаговый маршрут во внешних картах:
// первая точка — origin, последняя — destination, остальные — waypoints.
// Чисто форматирующая утилита, в расчётах маршрута не участвует.
func BuildMapURL(points []RoutePoint) string {
	if len(points) == 0 {
		return ""
	}

	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", formatCoord(points[0]))
	q.Set("destination", formatCoord(points[len(points)-1]))

	if len(points) > 2 {
		waypoints := make([]string, 0, len(points)-2)
		for _, p := range points[1 : len(points)-1] {
			waypoints = append(waypoints, formatCoord(p))
		}
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}

	return "https://www.google.com/maps/dir/?" + q.Encode()
}

func formatCoord(p RoutePoint) string {
	return strconv.FormatFloat(p.Latitude, 'f', 6, 64) + "," +
		strconv.FormatFloat(p.Longitude, 'f', 6, 64)
}
