package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertPropertySQL = `INSERT INTO property (
			zpid,
			address,
			city,
			state,
			zip,
			property_type,
			price,
			zestimate,
			rent_zestimate,
			bedrooms,
			bathrooms,
			living_area,
			lot_area,
			year_built,
			photo_url,
			fetched_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(zpid) DO UPDATE SET
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			zip = excluded.zip,
			property_type = excluded.property_type,
			price = excluded.price,
			zestimate = excluded.zestimate,
			rent_zestimate = excluded.rent_zestimate,
			bedrooms = excluded.bedrooms,
			bathrooms = excluded.bathrooms,
			living_area = excluded.living_area,
			lot_area = excluded.lot_area,
			year_built = excluded.year_built,
			photo_url = excluded.photo_url,
			fetched_at = excluded.fetched_at
	`

	selectPropertySQL = `SELECT
			zpid,
			address,
			city,
			state,
			zip,
			COALESCE(property_type, ''),
			COALESCE(price, 0),
			COALESCE(zestimate, 0),
			COALESCE(rent_zestimate, 0),
			COALESCE(bedrooms, 0),
			COALESCE(bathrooms, 0),
			COALESCE(living_area, 0),
			COALESCE(lot_area, 0),
			COALESCE(year_built, 0),
			COALESCE(photo_url, ''),
			fetched_at
		FROM property
		WHERE zpid = ?
	`

	queryPropertySQL = `SELECT
			zpid,
			address,
			COALESCE(city, '') AS city,
			COALESCE(state, '') AS state
		FROM property
		WHERE address LIKE ?
		OR city LIKE ?
		OR zip LIKE ?
		ORDER BY fetched_at DESC
		LIMIT ?
	`
)

// Property is the locally cached listing record.
type Property struct {
	ZPID          string  `json:"zpid" yaml:"zpid"`
	Address       string  `json:"address" yaml:"address"`
	City          string  `json:"city,omitempty" yaml:"city,omitempty"`
	State         string  `json:"state,omitempty" yaml:"state,omitempty"`
	Zip           string  `json:"zip,omitempty" yaml:"zip,omitempty"`
	PropertyType  string  `json:"property_type,omitempty" yaml:"propertyType,omitempty"`
	Price         float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Zestimate     float64 `json:"zestimate,omitempty" yaml:"zestimate,omitempty"`
	RentZestimate float64 `json:"rent_zestimate,omitempty" yaml:"rentZestimate,omitempty"`
	Bedrooms      int     `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms     float64 `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	LivingArea    float64 `json:"living_area,omitempty" yaml:"livingArea,omitempty"`
	LotArea       float64 `json:"lot_area,omitempty" yaml:"lotArea,omitempty"`
	YearBuilt     int     `json:"year_built,omitempty" yaml:"yearBuilt,omitempty"`
	PhotoURL      string  `json:"photo_url,omitempty" yaml:"photoURL,omitempty"`
	FetchedAt     string  `json:"fetched_at" yaml:"fetchedAt"`
}

// PropertyListItem is the short form returned by fuzzy property queries.
type PropertyListItem struct {
	ZPID    string `json:"zpid" yaml:"zpid"`
	Address string `json:"address" yaml:"address"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
}

// SaveProperty inserts or updates the cached listing record.
func SaveProperty(db *sql.DB, p *Property) error {
	if db == nil {
		return errDBNotInitialized
	}
	if p == nil || p.ZPID == "" {
		return errors.New("property with zpid is required")
	}

	stmt, err := db.Prepare(insertPropertySQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare property insert statement")
	}

	_, err = stmt.Exec(
		p.ZPID, p.Address, p.City, p.State, p.Zip, p.PropertyType,
		p.Price, p.Zestimate, p.RentZestimate, p.Bedrooms, p.Bathrooms,
		p.LivingArea, p.LotArea, p.YearBuilt, p.PhotoURL, p.FetchedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert property: %s", p.ZPID)
	}

	return nil
}

// GetProperty returns the cached listing record, nil if not found.
func GetProperty(db *sql.DB, zpid string) (*Property, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if zpid == "" {
		return nil, errors.New("zpid is required")
	}

	stmt, err := db.Prepare(selectPropertySQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare property select statement")
	}

	var p Property
	row := stmt.QueryRow(zpid)
	err = row.Scan(
		&p.ZPID, &p.Address, &p.City, &p.State, &p.Zip, &p.PropertyType,
		&p.Price, &p.Zestimate, &p.RentZestimate, &p.Bedrooms, &p.Bathrooms,
		&p.LivingArea, &p.LotArea, &p.YearBuilt, &p.PhotoURL, &p.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to scan property row")
	}

	return &p, nil
}

// QueryProperties does a fuzzy search over cached listings.
func QueryProperties(db *sql.DB, query string, limit int) ([]*PropertyListItem, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(queryPropertySQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare property query statement")
	}

	like := "%" + query + "%"
	rows, err := stmt.Query(like, like, like, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to execute property query statement")
	}
	defer rows.Close()

	list := make([]*PropertyListItem, 0)
	for rows.Next() {
		var item PropertyListItem
		if err := rows.Scan(&item.ZPID, &item.Address, &item.City, &item.State); err != nil {
			return nil, errors.Wrap(err, "failed to scan property list row")
		}
		list = append(list, &item)
	}

	return list, nil
}
