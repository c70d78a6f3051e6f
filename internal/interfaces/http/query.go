package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-api/internal/application/dto"
)

// pageRequest lee ?page=N&itemsPerPage=M; los límites se aplican en el caso de uso.
func pageRequest(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:         c.QueryInt("page", 1),
		ItemsPerPage: c.QueryInt("itemsPerPage", 0),
	}
}

// orderParams lee order[campo]=asc|desc respetando el orden de la query.
func orderParams(c *fiber.Ctx) []dto.OrderParam {
	var out []dto.OrderParam
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if strings.HasPrefix(k, "order[") && strings.HasSuffix(k, "]") && len(k) > len("order[]") {
			out = append(out, dto.OrderParam{
				Field:     k[len("order[") : len(k)-1],
				Direction: string(value),
			})
		}
	})
	return out
}
