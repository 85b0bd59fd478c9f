package model

// ScanStat accumulates how often a file has been read backward.
type ScanStat struct {
	Name     string `gorm:"primaryKey"`
	Requests int64
	Lines    int64
	// sqlite3 does not have builtin datetime type
	LastScan  int64
	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}
