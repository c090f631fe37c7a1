package output

import "encoding/xml"

// ListResult is the data written by the list command.
type ListResult struct {
	XMLName  xml.Name    `json:"-" xml:"listResult"`
	Registry string      `json:"registry" xml:"registry"`
	Date     string      `json:"date,omitempty" xml:"date,omitempty"`
	Packages []ListEntry `json:"packages" xml:"packages>package"`
}

// ListEntry is one tracked package.
//
// Fields:
//   - Package: The owner/repo identifier
//   - Version: Recorded version, branch, or #commit pin
//   - Date: Author date of the recorded commit
//   - SHA256: Archive digest
//   - TagFilter: Pattern restricting candidate tags
//   - Recipe: Recipe file mirroring the version
type ListEntry struct {
	Package   string `json:"package" xml:"name"`
	Version   string `json:"version" xml:"version"`
	Date      string `json:"date,omitempty" xml:"date,omitempty"`
	SHA256    string `json:"sha256,omitempty" xml:"sha256,omitempty"`
	TagFilter string `json:"tag_filter,omitempty" xml:"tagFilter,omitempty"`
	Recipe    string `json:"recipe,omitempty" xml:"recipe,omitempty"`
}

// CheckResult is the summary written by the check command.
type CheckResult struct {
	XMLName  xml.Name     `json:"-" xml:"checkResult"`
	Summary  CheckSummary `json:"summary" xml:"summary"`
	Packages []CheckEntry `json:"packages" xml:"packages>package"`
	Warnings []string     `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
}

// CheckSummary counts packages per outcome.
type CheckSummary struct {
	Total     int  `json:"total" xml:"total"`
	Updated   int  `json:"updated" xml:"updated"`
	UpToDate  int  `json:"up_to_date" xml:"upToDate"`
	Skipped   int  `json:"skipped" xml:"skipped"`
	Declined  int  `json:"declined" xml:"declined"`
	Failed    int  `json:"failed" xml:"failed"`
	Committed bool `json:"committed" xml:"committed"`
}

// CheckEntry is the outcome for one package.
type CheckEntry struct {
	Package    string `json:"package" xml:"name"`
	Status     string `json:"status" xml:"status"`
	OldVersion string `json:"old_version" xml:"oldVersion"`
	NewVersion string `json:"new_version,omitempty" xml:"newVersion,omitempty"`
	Error      string `json:"error,omitempty" xml:"error,omitempty"`
}
