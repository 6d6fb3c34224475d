package resolver

import "strings"

func joinIDs(ids []string) string {
	return strings.Join(ids, ";")
}
