package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// Las líneas de cotizaciones y facturas comparten la tabla document_items (document_kind + document_id).

func insertItems(ctx context.Context, q Querier, kind, documentID string, items []entity.DocumentItem) error {
	const query = `
		INSERT INTO document_items (id, document_kind, document_id, position, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if _, err := q.Exec(ctx, query,
			it.ID, kind, documentID, i, it.Description, it.Quantity, it.UnitPrice, it.Total,
		); err != nil {
			return fmt.Errorf("insert %s item: %w", kind, err)
		}
	}
	return nil
}

func replaceItems(ctx context.Context, q Querier, kind, documentID string, items []entity.DocumentItem) error {
	if err := deleteItems(ctx, q, kind, documentID); err != nil {
		return err
	}
	return insertItems(ctx, q, kind, documentID, items)
}

func deleteItems(ctx context.Context, q Querier, kind, documentID string) error {
	_, err := q.Exec(ctx, `DELETE FROM document_items WHERE document_kind = $1 AND document_id = $2`, kind, documentID)
	if err != nil {
		return fmt.Errorf("delete %s items: %w", kind, err)
	}
	return nil
}

// loadItems devuelve las líneas de varios documentos agrupadas por document_id, en su orden original.
func loadItems(ctx context.Context, q Querier, kind string, documentIDs []string) (map[string][]entity.DocumentItem, error) {
	out := make(map[string][]entity.DocumentItem, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}
	const query = `
		SELECT document_id, id, description, quantity, unit_price, total
		FROM document_items
		WHERE document_kind = $1 AND document_id = ANY($2)
		ORDER BY document_id, position`
	rows, err := q.Query(ctx, query, kind, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", kind, err)
	}
	defer rows.Close()
	for rows.Next() {
		var docID string
		var it entity.DocumentItem
		if err := rows.Scan(&docID, &it.ID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan %s item: %w", kind, err)
		}
		out[docID] = append(out[docID], it)
	}
	return out, rows.Err()
}
