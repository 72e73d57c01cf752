package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertValuationSQL = `INSERT INTO valuation (zpid, composite, confidence, created_at)
		VALUES (?, ?, ?, ?)
	`

	insertValuationFactorSQL = `INSERT INTO valuation_factor (
			valuation_id, position, factor, score, weight, rationale
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectValuationSQL = `SELECT id, zpid, composite, confidence, created_at
		FROM valuation
		WHERE id = ?
	`

	selectLatestValuationSQL = `SELECT id, zpid, composite, confidence, created_at
		FROM valuation
		WHERE zpid = ?
		ORDER BY id DESC
		LIMIT 1
	`

	selectValuationFactorsSQL = `SELECT factor, score, weight, COALESCE(rationale, '')
		FROM valuation_factor
		WHERE valuation_id = ?
		ORDER BY position
	`

	listValuationsSQL = `SELECT v.id, v.zpid, p.address, v.composite, v.confidence, v.created_at
		FROM valuation v
		JOIN property p ON v.zpid = p.zpid
		ORDER BY v.id DESC
		LIMIT ?
	`
)

// Valuation is a persisted valuation run with its factor breakdown.
type Valuation struct {
	ID         int64              `json:"id" yaml:"id"`
	ZPID       string             `json:"zpid" yaml:"zpid"`
	Composite  float64            `json:"composite" yaml:"composite"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Created    string             `json:"created" yaml:"created"`
	Factors    []*ValuationFactor `json:"factors,omitempty" yaml:"factors,omitempty"`
}

// ValuationFactor is one contributing factor, stored in supplied order
// with the weight that was in effect at valuation time.
type ValuationFactor struct {
	Factor    string  `json:"factor" yaml:"factor"`
	Score     float64 `json:"score" yaml:"score"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Rationale string  `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// ValuationListItem is the short form returned by valuation list queries.
type ValuationListItem struct {
	ID         int64   `json:"id" yaml:"id"`
	ZPID       string  `json:"zpid" yaml:"zpid"`
	Address    string  `json:"address" yaml:"address"`
	Composite  float64 `json:"composite" yaml:"composite"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Created    string  `json:"created" yaml:"created"`
}

// SaveValuation persists the valuation and its factors in one transaction
// and sets the generated ID on v.
func SaveValuation(db *sql.DB, v *Valuation) error {
	if db == nil {
		return errDBNotInitialized
	}
	if v == nil || v.ZPID == "" {
		return errors.New("valuation with zpid is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin valuation tx")
	}

	res, err := tx.Exec(insertValuationSQL, v.ZPID, v.Composite, v.Confidence, v.Created)
	if err != nil {
		rollbackTransaction(tx)
		return errors.Wrapf(err, "failed to insert valuation for: %s", v.ZPID)
	}

	id, err := res.LastInsertId()
	if err != nil {
		rollbackTransaction(tx)
		return errors.Wrap(err, "failed to get valuation id")
	}

	stmt, err := tx.Prepare(insertValuationFactorSQL)
	if err != nil {
		rollbackTransaction(tx)
		return errors.Wrap(err, "failed to prepare valuation factor insert")
	}

	for i, fs := range v.Factors {
		if _, err := stmt.Exec(id, i, fs.Factor, fs.Score, fs.Weight, fs.Rationale); err != nil {
			rollbackTransaction(tx)
			return errors.Wrapf(err, "failed to insert valuation factor: %s", fs.Factor)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit valuation tx")
	}

	v.ID = id
	return nil
}

// GetValuation returns the valuation with its factors, nil if not found.
func GetValuation(db *sql.DB, id int64) (*Valuation, error) {
	return getValuation(db, selectValuationSQL, id)
}

// GetLatestValuation returns the most recent valuation for a property,
// nil if the property has none.
func GetLatestValuation(db *sql.DB, zpid string) (*Valuation, error) {
	if zpid == "" {
		return nil, errors.New("zpid is required")
	}
	return getValuation(db, selectLatestValuationSQL, zpid)
}

func getValuation(db *sql.DB, query string, arg any) (*Valuation, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var v Valuation
	err := db.QueryRow(query, arg).Scan(&v.ID, &v.ZPID, &v.Composite, &v.Confidence, &v.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to scan valuation row")
	}

	rows, err := db.Query(selectValuationFactorsSQL, v.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to query valuation factors")
	}
	defer rows.Close()

	for rows.Next() {
		var fs ValuationFactor
		if err := rows.Scan(&fs.Factor, &fs.Score, &fs.Weight, &fs.Rationale); err != nil {
			return nil, errors.Wrap(err, "failed to scan valuation factor row")
		}
		v.Factors = append(v.Factors, &fs)
	}

	return &v, nil
}

// ListValuations returns the most recent valuations, newest first.
func ListValuations(db *sql.DB, limit int) ([]*ValuationListItem, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(listValuationsSQL, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to query valuations")
	}
	defer rows.Close()

	list := make([]*ValuationListItem, 0)
	for rows.Next() {
		var item ValuationListItem
		if err := rows.Scan(&item.ID, &item.ZPID, &item.Address, &item.Composite, &item.Confidence, &item.Created); err != nil {
			return nil, errors.Wrap(err, "failed to scan valuation list row")
		}
		list = append(list, &item)
	}

	return list, nil
}
