package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

func sortCategories(list []entity.Category) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

func sortProductsByName(list []entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

// newestFirst orden de listados: created_at DESC, id DESC.
func newestFirst(ti, tj time.Time, idi, idj int64) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi > idj
}

// page aplica limit/offset; nil significa sin límite / desde el inicio.
func page(n int, limit, offset *int) (int, int) {
	start := 0
	if offset != nil && *offset > 0 {
		start = *offset
	}
	if start > n {
		start = n
	}
	end := n
	if limit != nil && start+*limit < end {
		end = start + *limit
	}
	return start, end
}
