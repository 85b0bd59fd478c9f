package api

import "time"

type ListFilesResponseItem struct {
	Name  string    `json:"name"`
	Size  int64     `json:"size"`
	Mtime time.Time `json:"mtime"`
}

type ListFilesResponse = []ListFilesResponseItem

type GetLinesRequest struct {
	Limit      int    `query:"limit" validate:"min=0,max=10000"`
	BufferSize string `query:"bufferSize"`
	Cursor     string `query:"cursor"`
}

type GetLinesResponse struct {
	// Lines are ordered from the end of the file towards its start.
	Lines  []string `json:"lines"`
	Cursor string   `json:"cursor,omitempty"`
	EOF    bool     `json:"eof"`
}

type GetTailRequest struct {
	N int `query:"n" validate:"min=0"`
}

type ScanStat struct {
	Name     string `json:"name"`
	Requests int64  `json:"requests"`
	Lines    int64  `json:"lines"`
	LastScan int64  `json:"lastScan"`
}

type ListStatsResponse = []ScanStat
