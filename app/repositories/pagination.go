package repositories

import "gorm.io/gorm"

// Pagination describes one page of a listing.
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"total"`
	LastPage int   `json:"lastPage"`
}

// paginate counts query and loads one page into out. page and limit are
// normalised to 1 and 15 when out of range.
func paginate(query *gorm.DB, page, limit int, out interface{}) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := query.
		Offset((page - 1) * limit).
		Limit(limit).
		Find(out).Error; err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(limit) - 1) / int64(limit))
	if last < 1 {
		last = 1
	}

	return Pagination{Page: page, Limit: limit, Total: total, LastPage: last}, nil
}
