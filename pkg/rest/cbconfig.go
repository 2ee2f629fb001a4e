package rest

import "encoding/json"

// PoolsInfo is the subset of GET /pools the provisioner consumes.
type PoolsInfo struct {
	IsEnterprise          bool   `json:"isEnterprise"`
	UUID                  string `json:"uuid"`
	ImplementationVersion string `json:"implementationVersion"`
}

// TerseExtNode is one nodesExt entry of a terse bucket config. The
// services map is keyed by service name; SSL and sub-service variants
// carry the plain identifier as a prefix (kvSSL, indexHttp, ...).
type TerseExtNode struct {
	Services map[string]int `json:"services"`
	ThisNode bool           `json:"thisNode,omitempty"`
	Hostname string         `json:"hostname,omitempty"`
}

// TerseConfig is the subset of GET /pools/default/b/{bucket} the
// provisioner consumes.
type TerseConfig struct {
	Name     string         `json:"name,omitempty"`
	UUID     string         `json:"uuid,omitempty"`
	NodesExt []TerseExtNode `json:"nodesExt,omitempty"`
}

// QueryResult is the response envelope of POST /query/service.
type QueryResult struct {
	Status  string            `json:"status"`
	Results []json.RawMessage `json:"results"`
	Errors  []QueryProblem    `json:"errors,omitempty"`
}

// QueryProblem is one server-reported query error.
type QueryProblem struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// DecodeRows unmarshals every result row into a slice of T.
func DecodeRows[T any](res *QueryResult) ([]T, error) {
	rows := make([]T, 0, len(res.Results))
	for _, raw := range res.Results {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
