package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// Aggregator runs read-only reporting queries against the leads and
// email_logs tables.
type Aggregator struct {
	db     *sql.DB
	logger *logging.Logger
	now    func() time.Time
}

// NewAggregator creates an analytics aggregator.
func NewAggregator(db *sql.DB, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{db: db, logger: logger, now: time.Now}
}

// CVRequestStats summarizes request volume and funnel rates for a period.
type CVRequestStats struct {
	Total             int     `json:"total"`
	ThisPeriod        int     `json:"this_period"`
	QualificationRate float64 `json:"qualification_rate"`
	ConversionRate    float64 `json:"conversion_rate"`
}

// DailyTrend is one day of request activity.
type DailyTrend struct {
	Date             time.Time `json:"date"`
	Requests         int       `json:"requests"`
	CVRequests       int       `json:"cv_requests"`
	CalendlyBookings int       `json:"calendly_bookings"`
}

// PortfolioMetrics groups the request-volume side of the dashboard.
type PortfolioMetrics struct {
	CVRequests     CVRequestStats `json:"cv_requests"`
	ContactSources map[string]int `json:"contact_sources"`
	UniqueContacts int            `json:"unique_contacts"`
	DailyTrends    []DailyTrend   `json:"daily_trends"`
}

// TopCompany is one entry in the company leaderboard.
type TopCompany struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
	Status  string `json:"status"`
}

// LeadQuality groups the lead-segmentation side of the dashboard.
type LeadQuality struct {
	ByCompanyType map[string]int `json:"by_company_type"`
	ByRole        map[string]int `json:"by_role"`
	TopCompanies  []TopCompany   `json:"top_companies"`
}

// DashboardReport is the full analytics dashboard payload.
type DashboardReport struct {
	PortfolioMetrics PortfolioMetrics `json:"portfolio_metrics"`
	LeadQuality      LeadQuality      `json:"lead_quality"`
	TimePeriod       string           `json:"time_period"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// Company and role bucketing happens in SQL so grouping and counting
// stay in one round trip. First matching pattern wins.
const companyTypeCase = `CASE
		WHEN LOWER(company) LIKE '%startup%' OR LOWER(company) LIKE '%inc%' THEN 'startup'
		WHEN LOWER(company) LIKE '%corp%' OR LOWER(company) LIKE '%ltd%' OR LOWER(company) LIKE '%llc%' THEN 'corporate'
		WHEN LOWER(company) LIKE '%consulting%' OR LOWER(company) LIKE '%advisory%' THEN 'consulting'
		WHEN LOWER(company) LIKE '%university%' OR LOWER(company) LIKE '%education%' THEN 'education'
		ELSE 'other'
	END`

const roleCategoryCase = `CASE
		WHEN LOWER(role) LIKE '%founder%' OR LOWER(role) LIKE '%ceo%' THEN 'founder'
		WHEN LOWER(role) LIKE '%cto%' OR LOWER(role) LIKE '%technical%' THEN 'cto'
		WHEN LOWER(role) LIKE '%recruiter%' OR LOWER(role) LIKE '%hr%' THEN 'recruiter'
		WHEN LOWER(role) LIKE '%manager%' OR LOWER(role) LIKE '%director%' THEN 'management'
		WHEN LOWER(role) LIKE '%engineer%' OR LOWER(role) LIKE '%developer%' THEN 'engineering'
		ELSE 'other'
	END`

// Dashboard builds the full analytics report for the last `days` days.
// Days outside 1..365 are clamped.
func (a *Aggregator) Dashboard(ctx context.Context, days int) (*DashboardReport, error) {
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}
	startDate := a.now().UTC().AddDate(0, 0, -days)

	report := &DashboardReport{
		TimePeriod:  fmt.Sprintf("%d days", days),
		GeneratedAt: a.now().UTC(),
	}

	var (
		totalRequests  int
		periodRequests int
		qualified      int
		converted      int
		uniqueContacts int
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_requests,
			COUNT(CASE WHEN created_at >= $1 THEN 1 END) AS period_requests,
			COUNT(CASE WHEN status = 'qualified' THEN 1 END) AS qualified_leads,
			COUNT(CASE WHEN status IN ('proposal_sent', 'closed_won') THEN 1 END) AS converted_leads,
			COUNT(DISTINCT email) AS unique_contacts
		FROM leads
		WHERE created_at >= $1`, startDate,
	).Scan(&totalRequests, &periodRequests, &qualified, &converted, &uniqueContacts)
	if err != nil {
		return nil, fmt.Errorf("analytics: portfolio metrics: %w", err)
	}

	report.PortfolioMetrics.CVRequests = CVRequestStats{
		Total:             totalRequests,
		ThisPeriod:        periodRequests,
		QualificationRate: percentage(qualified, periodRequests),
		ConversionRate:    percentage(converted, periodRequests),
	}
	report.PortfolioMetrics.UniqueContacts = uniqueContacts

	sources, err := a.sourceCounts(ctx, startDate)
	if err != nil {
		return nil, err
	}
	report.PortfolioMetrics.ContactSources = sources

	trends, err := a.dailyTrends(ctx, startDate)
	if err != nil {
		return nil, err
	}
	report.PortfolioMetrics.DailyTrends = trends

	companyTypes, err := a.bucketCounts(ctx, `
		SELECT `+companyTypeCase+` AS company_type, COUNT(*) AS count
		FROM leads
		WHERE created_at >= $1 AND company IS NOT NULL AND company != ''
		GROUP BY company_type
		ORDER BY count DESC`, startDate)
	if err != nil {
		return nil, fmt.Errorf("analytics: company types: %w", err)
	}
	report.LeadQuality.ByCompanyType = companyTypes

	roles, err := a.bucketCounts(ctx, `
		SELECT `+roleCategoryCase+` AS role_category, COUNT(*) AS count
		FROM leads
		WHERE created_at >= $1 AND role IS NOT NULL AND role != ''
		GROUP BY role_category
		ORDER BY count DESC`, startDate)
	if err != nil {
		return nil, fmt.Errorf("analytics: role categories: %w", err)
	}
	report.LeadQuality.ByRole = roles

	topCompanies, err := a.topCompanies(ctx, startDate)
	if err != nil {
		return nil, err
	}
	report.LeadQuality.TopCompanies = topCompanies

	return report, nil
}

func (a *Aggregator) sourceCounts(ctx context.Context, startDate time.Time) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT source, COUNT(*) AS count
		FROM leads
		WHERE created_at >= $1
		GROUP BY source
		ORDER BY count DESC`, startDate)
	if err != nil {
		return nil, fmt.Errorf("analytics: source counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("analytics: source counts: %w", err)
		}
		counts[source] = count
	}
	return counts, rows.Err()
}

// dailyTrends returns per-day counts newest first. The row cap stays at
// 30 even for longer windows, matching the dashboard's chart width.
func (a *Aggregator) dailyTrends(ctx context.Context, startDate time.Time) ([]DailyTrend, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT
			DATE_TRUNC('day', created_at) AS date,
			COUNT(*) AS daily_requests,
			COUNT(CASE WHEN source = 'cv_request' THEN 1 END) AS cv_requests,
			COUNT(CASE WHEN source = 'calendly' THEN 1 END) AS calendly_bookings
		FROM leads
		WHERE created_at >= $1
		GROUP BY DATE_TRUNC('day', created_at)
		ORDER BY date DESC
		LIMIT 30`, startDate)
	if err != nil {
		return nil, fmt.Errorf("analytics: daily trends: %w", err)
	}
	defer rows.Close()

	trends := []DailyTrend{}
	for rows.Next() {
		var t DailyTrend
		if err := rows.Scan(&t.Date, &t.Requests, &t.CVRequests, &t.CalendlyBookings); err != nil {
			return nil, fmt.Errorf("analytics: daily trends: %w", err)
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

func (a *Aggregator) bucketCounts(ctx context.Context, query string, startDate time.Time) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx, query, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var bucket string
		var count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, err
		}
		counts[bucket] = count
	}
	return counts, rows.Err()
}

func (a *Aggregator) topCompanies(ctx context.Context, startDate time.Time) ([]TopCompany, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT company, status, COUNT(*) AS count
		FROM leads
		WHERE created_at >= $1 AND company IS NOT NULL AND company != ''
		GROUP BY company, role, status
		ORDER BY count DESC
		LIMIT 10`, startDate)
	if err != nil {
		return nil, fmt.Errorf("analytics: top companies: %w", err)
	}
	defer rows.Close()

	companies := []TopCompany{}
	for rows.Next() {
		var c TopCompany
		if err := rows.Scan(&c.Company, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("analytics: top companies: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// LeadsSummaryStats is the high-level lead funnel snapshot.
type LeadsSummaryStats struct {
	TotalLeads     int `json:"total_leads"`
	NewLeads       int `json:"new_leads"`
	QualifiedLeads int `json:"qualified_leads"`
	WonLeads       int `json:"won_leads"`
	ThisWeek       int `json:"this_week"`
	ThisMonth      int `json:"this_month"`
}

// SummaryReport wraps the summary with its generation time.
type SummaryReport struct {
	Summary     LeadsSummaryStats `json:"summary"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// LeadsSummary returns overall funnel counts across all time.
func (a *Aggregator) LeadsSummary(ctx context.Context) (*SummaryReport, error) {
	report := &SummaryReport{GeneratedAt: a.now().UTC()}
	err := a.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_leads,
			COUNT(CASE WHEN status = 'new' THEN 1 END) AS new_leads,
			COUNT(CASE WHEN status = 'qualified' THEN 1 END) AS qualified_leads,
			COUNT(CASE WHEN status = 'closed_won' THEN 1 END) AS won_leads,
			COUNT(CASE WHEN created_at >= CURRENT_DATE - INTERVAL '7 days' THEN 1 END) AS this_week,
			COUNT(CASE WHEN created_at >= CURRENT_DATE - INTERVAL '30 days' THEN 1 END) AS this_month
		FROM leads`,
	).Scan(
		&report.Summary.TotalLeads,
		&report.Summary.NewLeads,
		&report.Summary.QualifiedLeads,
		&report.Summary.WonLeads,
		&report.Summary.ThisWeek,
		&report.Summary.ThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics: leads summary: %w", err)
	}
	return report, nil
}

// EmailDeliveryStats summarizes the last 30 days of outbound email.
type EmailDeliveryStats struct {
	TotalSent   int     `json:"total_sent"`
	SuccessRate float64 `json:"success_rate"`
	FailedCount int     `json:"failed_count"`
}

// APIPerformance carries static service-level figures until real
// monitoring data is wired in.
type APIPerformance struct {
	AvgResponseTime string `json:"avg_response_time"`
	Uptime          string `json:"uptime"`
	ErrorRate       string `json:"error_rate"`
}

// DatabaseStatus reports coarse database health strings.
type DatabaseStatus struct {
	ConnectionPool   string `json:"connection_pool"`
	QueryPerformance string `json:"query_performance"`
}

// PerformanceMetrics groups delivery, API, and database figures.
type PerformanceMetrics struct {
	EmailDelivery  EmailDeliveryStats `json:"email_delivery"`
	APIPerformance APIPerformance     `json:"api_performance"`
	Database       DatabaseStatus     `json:"database"`
}

// PerformanceReport wraps the performance metrics with generation time.
type PerformanceReport struct {
	Performance PerformanceMetrics `json:"performance"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Performance returns email delivery stats from the send log.
func (a *Aggregator) Performance(ctx context.Context) (*PerformanceReport, error) {
	var (
		total        int
		failed       int
		deliveryRate sql.NullFloat64
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_emails,
			COUNT(CASE WHEN status = 'failed' THEN 1 END) AS failed_emails,
			AVG(CASE WHEN status = 'sent' THEN 1.0 ELSE 0.0 END) AS delivery_rate
		FROM email_logs
		WHERE sent_at >= CURRENT_DATE - INTERVAL '30 days'`,
	).Scan(&total, &failed, &deliveryRate)
	if err != nil {
		return nil, fmt.Errorf("analytics: email delivery stats: %w", err)
	}

	return &PerformanceReport{
		Performance: PerformanceMetrics{
			EmailDelivery: EmailDeliveryStats{
				TotalSent:   total,
				SuccessRate: round2(deliveryRate.Float64 * 100),
				FailedCount: failed,
			},
			APIPerformance: APIPerformance{
				AvgResponseTime: "150ms",
				Uptime:          "99.9%",
				ErrorRate:       "0.1%",
			},
			Database: DatabaseStatus{
				ConnectionPool:   "healthy",
				QueryPerformance: "optimal",
			},
		},
		GeneratedAt: a.now().UTC(),
	}, nil
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
