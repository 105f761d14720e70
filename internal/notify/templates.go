package notify

import (
	"fmt"
	"strings"
	"time"
)

// TemplateLinks are the outbound links interpolated into the CV email.
type TemplateLinks struct {
	CalendlyURL string
	LinkedInURL string
}

// Field values are interpolated as-is: the intake validator has already
// rejected markup-bearing input, so no re-sanitization happens here.

func renderCVEmailHTML(name, company, purpose string, links TemplateLinks) string {
	companyText := ""
	if company != "" {
		companyText = " at " + company
	}
	purposeText := ""
	if purpose != "" {
		purposeText = fmt.Sprintf("<p><strong>Your stated purpose:</strong> %s</p>", purpose)
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Charles Nwankpa - CV</title></head>
<body style="font-family: sans-serif; line-height: 1.6; background-color: #f8fafc; padding: 20px;">
<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden;">
<div style="background: #667eea; color: white; padding: 30px; text-align: center;">
<h1>Charles Nwankpa</h1>
<p>AI Product Engineer</p>
</div>
<div style="padding: 30px;">
`)
	fmt.Fprintf(&b, "<h2>Dear %s,</h2>\n", name)
	fmt.Fprintf(&b, "<p>Thank you for your interest in my AI/ML engineering services%s.</p>\n", companyText)
	if purposeText != "" {
		b.WriteString(purposeText + "\n")
	}
	b.WriteString(`<p>As requested, please find my CV attached. This document outlines my experience in:</p>
<ul>
<li>Production ML/AI systems and enterprise architecture</li>
<li>RAG architecture and LLM implementation</li>
<li>Enterprise-grade solution development</li>
<li>Strategic AI consulting and executive training</li>
</ul>
<h3>Next Steps:</h3>
<div style="text-align: center; margin: 25px 0;">
`)
	fmt.Fprintf(&b, "<a href=\"%s\">Book Discovery Call</a> &middot; <a href=\"%s\">Connect on LinkedIn</a>\n", links.CalendlyURL, links.LinkedInURL)
	b.WriteString(`</div>
<p>Looking forward to exploring collaboration opportunities with you.</p>
<p>Best regards,<br><strong>Charles Nwankpa</strong><br>AI Product Engineer</p>
</div>
<div style="background: #f1f5f9; padding: 20px; text-align: center; font-size: 14px; color: #64748b;">
<p>This email was sent in response to your CV request.</p>
</div>
</div>
</body>
</html>`)
	return b.String()
}

func renderCVEmailText(name, company, purpose string, links TemplateLinks) string {
	companyText := ""
	if company != "" {
		companyText = " at " + company
	}
	purposeText := ""
	if purpose != "" {
		purposeText = fmt.Sprintf("Your stated purpose: %s\n\n", purpose)
	}

	return fmt.Sprintf(`Dear %s,

Thank you for your interest in my AI/ML engineering services%s.

%sAs requested, please find my CV attached. This document outlines my experience in:

- Production ML/AI systems and enterprise architecture
- RAG architecture and LLM implementation
- Enterprise-grade solution development
- Strategic AI consulting and executive training

Next Steps:
- Book a discovery call: %s
- Connect on LinkedIn: %s

Looking forward to exploring collaboration opportunities with you.

Best regards,
Charles Nwankpa
AI Product Engineer
`, name, companyText, purposeText, links.CalendlyURL, links.LinkedInURL)
}

func renderAdminNotificationHTML(name, email, phone, company, role, purpose, ipAddress string, createdAt time.Time) string {
	orNotSpecified := func(v string) string {
		if v == "" {
			return "Not specified"
		}
		return v
	}
	return fmt.Sprintf(`<h2>New CV Request Received</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Company:</strong> %s</p>
<p><strong>Role:</strong> %s</p>
<p><strong>Purpose:</strong> %s</p>
<p><strong>IP Address:</strong> %s</p>
<p><strong>Timestamp:</strong> %s</p>`,
		name, email, phone,
		orNotSpecified(company), orNotSpecified(role), orNotSpecified(purpose),
		orNotSpecified(ipAddress), createdAt.UTC().Format(time.RFC3339))
}

func renderAdminNotificationText(name, email, phone, company, role, purpose, ipAddress string, createdAt time.Time) string {
	orNotSpecified := func(v string) string {
		if v == "" {
			return "Not specified"
		}
		return v
	}
	return fmt.Sprintf(`New CV Request Received

Name: %s
Email: %s
Phone: %s
Company: %s
Role: %s
Purpose: %s
IP Address: %s
Timestamp: %s
`,
		name, email, phone,
		orNotSpecified(company), orNotSpecified(role), orNotSpecified(purpose),
		orNotSpecified(ipAddress), createdAt.UTC().Format(time.RFC3339))
}

func adminNotificationSubject(name, company string) string {
	if company == "" {
		company = "No company"
	}
	return fmt.Sprintf("New CV Request: %s (%s)", name, company)
}
