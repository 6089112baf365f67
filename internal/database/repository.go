package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/verdantops/greenscore/internal/scoring"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// UpsertSupplier inserts a supplier or refreshes its service area, returning
// the supplier's ID either way.
func (r *Repository) UpsertSupplier(name, serviceArea string) (string, error) {
	stmt, err := r.db.GetPreparedStatement("upsert_supplier")
	if err != nil {
		return "", err
	}

	supplier := NewSupplier(name, serviceArea)
	if _, err := stmt.Exec(supplier.ID, supplier.Name, supplier.ServiceArea, supplier.CreatedAt, supplier.UpdatedAt); err != nil {
		return "", fmt.Errorf("failed to upsert supplier %q: %w", name, err)
	}

	// The upsert keeps the original row on conflict, so read the ID back.
	var id string
	if err := r.db.QueryRow(`SELECT id FROM suppliers WHERE name = ?`, name).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to resolve supplier id for %q: %w", name, err)
	}

	return id, nil
}

// InsertEvaluation stores one questionnaire submission under a supplier
func (r *Repository) InsertEvaluation(supplierID string, record scoring.EvaluationRecord) error {
	eval, err := NewEvaluation(supplierID, record)
	if err != nil {
		return err
	}

	stmt, err := r.db.GetPreparedStatement("insert_evaluation")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(eval.ID, eval.SupplierID, eval.Category,
		eval.RaterName, eval.RaterOrg, eval.RaterPhone,
		eval.Scores, eval.Attributes, eval.Feedback,
		eval.EvalDate, eval.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	return nil
}

// GetSupplier looks a supplier up by name
func (r *Repository) GetSupplier(name string) (*Supplier, error) {
	stmt, err := r.db.GetPreparedStatement("get_supplier_by_name")
	if err != nil {
		return nil, err
	}

	var s Supplier
	err = stmt.QueryRow(name).Scan(
		&s.ID, &s.Name, &s.ServiceArea, &s.ProjectCount, &s.ProjectNames,
		&s.ProjectRatio, &s.Remarks, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %q: %w", name, err)
	}

	return &s, nil
}

// ListSuppliers returns all suppliers ordered by name
func (r *Repository) ListSuppliers() ([]*Supplier, error) {
	rows, err := r.db.Query(`
		SELECT id, name, service_area, project_count, project_names, project_ratio, remarks, created_at, updated_at
		FROM suppliers ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.ServiceArea, &s.ProjectCount, &s.ProjectNames,
			&s.ProjectRatio, &s.Remarks, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, &s)
	}

	return suppliers, rows.Err()
}

// UpdateServiceInfo updates the supplier's project bookkeeping columns
func (r *Repository) UpdateServiceInfo(name string, projectCount int, projectNames string, projectRatio float64, remarks string) error {
	result, err := r.db.Exec(`
		UPDATE suppliers SET project_count = ?, project_names = ?, project_ratio = ?, remarks = ?, updated_at = ?
		WHERE name = ?
	`, projectCount, projectNames, projectRatio, remarks, time.Now(), name)
	if err != nil {
		return fmt.Errorf("failed to update service info for %q: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check service info update for %q: %w", name, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetSupplierEvaluations loads all stored records for one supplier
func (r *Repository) GetSupplierEvaluations(supplierID string) ([]scoring.EvaluationRecord, error) {
	stmt, err := r.db.GetPreparedStatement("get_supplier_evaluations")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllSupplierEvaluations loads every supplier with its records, grouped and
// ready for the scoring engine.
func (r *Repository) AllSupplierEvaluations() ([]scoring.SupplierRecords, error) {
	suppliers, err := r.ListSuppliers()
	if err != nil {
		return nil, err
	}

	groups := make([]scoring.SupplierRecords, 0, len(suppliers))
	for _, s := range suppliers {
		records, err := r.GetSupplierEvaluations(s.ID)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		groups = append(groups, scoring.SupplierRecords{
			Name:        s.Name,
			ServiceArea: s.ServiceArea,
			Records:     records,
		})
	}

	return groups, nil
}

func scanRecords(rows *sql.Rows) ([]scoring.EvaluationRecord, error) {
	var records []scoring.EvaluationRecord
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.SupplierID, &e.Category,
			&e.RaterName, &e.RaterOrg, &e.RaterPhone,
			&e.Scores, &e.Attributes, &e.Feedback,
			&e.EvalDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}

		record, err := e.ToRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
