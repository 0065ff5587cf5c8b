package model

// PerformanceSnapshot summarizes recent pipeline runs for a repository.
type PerformanceSnapshot struct {
	AvgBuildMinutes float64
	SuccessRate     float64 // 0..1
	MonthlyCostUSD  float64
	Degraded        bool
}

// SecurityAlert is an open vulnerability report against a dependency.
type SecurityAlert struct {
	ID           string
	Package      string
	Severity     string // low, moderate, high, critical
	FixedVersion string
	Open         bool
}
