package agent

import "github.com/kcurator/awesome-discover/pkg/jsonutil"

func extractJSON(text string) string  { return jsonutil.ExtractFenced(text) }
func preview(s string, n int) string { return jsonutil.Preview(s, n) }
