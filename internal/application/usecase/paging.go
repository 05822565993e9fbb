package usecase

import "github.com/jhoicas/FarmHub-api/internal/application/dto"

// Page recorta una lista ya filtrada por alcance. Total es el tamaño antes de recortar.
func Page[T any](list []T, p dto.PageRequest) ([]T, dto.PageResponse) {
	p.DefaultPage()
	meta := dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(list)}
	if p.Offset >= len(list) {
		return []T{}, meta
	}
	end := p.Offset + p.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[p.Offset:end], meta
}
