package schedule

import "math"

// Средняя скорость перемещения между встречами, км/ч.
const averageSpeedKmh = 50

// NearestNeighborOrder упорядочивает точки жадной эвристикой «ближайший
// сосед»: старт — первая точка исходного (хронологического) порядка, дальше
// каждый раз выбирается непосещённая точка с минимальным расстоянием
// Haversine от последней посещённой. O(n²), глобальный оптимум не
// гарантируется. При равных расстояниях выигрывает более ранняя точка
// исходного порядка, поэтому результат детерминирован.
func NearestNeighborOrder(points []RoutePoint) []RoutePoint {
	if len(points) <= 1 {
		out := make([]RoutePoint, len(points))
		copy(out, points)
		return out
	}

	remaining := make([]RoutePoint, len(points))
	copy(remaining, points)

	route := make([]RoutePoint, 0, len(points))
	route = append(route, remaining[0])
	remaining = remaining[1:]

	for len(remaining) > 0 {
		last := route[len(route)-1]

		best := 0
		bestDist := math.MaxFloat64
		for i, p := range remaining {
			d := Haversine(last.Latitude, last.Longitude, p.Latitude, p.Longitude)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}

		route = append(route, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return route
}

// PathDistanceKm — суммарная длина пути по порядку следования точек.
func PathDistanceKm(points []RoutePoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(
			points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude,
		)
	}
	return total
}

// EstimateTravelMinutes — оценка времени в пути при средней скорости
// averageSpeedKmh, округление вверх до минуты.
func EstimateTravelMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / averageSpeedKmh * 60))
}
