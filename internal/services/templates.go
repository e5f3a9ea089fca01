package services

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

const layoutOpen = `<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">`

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "admin"}}` + layoutOpen + `
<h2 style="color: #2e7d32;">New {{.Heading}} Submission</h2>
<hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
<p><strong>Name:</strong> {{.Enquiry.Name}}</p>
<p><strong>Email:</strong> {{.Enquiry.Email}}</p>
{{with .Enquiry.PhoneNumber}}<p><strong>Phone:</strong> {{.}}</p>{{end}}
<p><strong>Message:</strong></p>
<div style="background: #f9f9f9; padding: 15px; border-radius: 5px; margin-top: 10px; white-space: pre-wrap;">{{.Enquiry.Message}}</div>
{{with .Visit}}
<div style="margin-top: 20px; padding: 15px; background: #e3f2fd; border-radius: 5px;">
<h3 style="margin-top: 0; color: #1565c0;">Visit Details</h3>
<p><strong>Preferred Date:</strong> {{.Date}}</p>
<p><strong>Preferred Time:</strong> {{.Time.Label}}</p>
<p><strong>Visitors:</strong> {{.Visitors}}</p>
<p><strong>Purpose:</strong> {{.Purpose}}</p>
</div>
{{end}}
<hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
<p style="font-size: 12px; color: #999;">This is an automated notification.</p>
</div>
{{end}}

{{define "ack"}}` + layoutOpen + `
<h2 style="color: #2e7d32;">Enquiry Received</h2>
<p>Hello {{.Name}},</p>
<p>Thank you for contacting Exotica Farms.</p>
<p>We have received your enquiry and our team will get back to you shortly.</p>
<hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
<div style="font-size: 0.9rem; color: #666;">
<p><strong>Your Message:</strong></p>
<div style="background: #f9f9f9; padding: 12px; border-radius: 8px; margin-top: 5px; white-space: pre-wrap;">{{.Message}}</div>
</div>
<p style="margin-top: 20px;">Warm regards,<br>Exotica Farms Team</p>
</div>
{{end}}

{{define "visit"}}` + layoutOpen + `
<h2 style="color: {{.Color}};">{{.Title}}</h2>
<p>Hi {{.Name}},</p>
<p>{{.Body}}</p>
{{with .Reason}}<p><strong>Note from Admin:</strong> {{.}}</p>{{end}}
<hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
<div style="font-size: 0.9rem; color: #666;">
<p><strong>Visit Details:</strong></p>
<p>Date: {{.Date}}</p>
<p>Time: {{.Time}}</p>
<p>Visitors: {{.Visitors}}</p>
</div>
<p style="margin-top: 20px;">Regards,<br>Exotica Farms Team</p>
</div>
{{end}}

{{define "reply"}}` + layoutOpen + `
<h2 style="color: #2e7d32;">Reply from Exotica Farms</h2>
<p>Hi {{.Name}},</p>
<div style="background: #f9f9f9; padding: 15px; border-radius: 8px; margin: 20px 0; line-height: 1.6; color: #333;">{{.Body}}</div>
<p>If you have any further questions, feel free to reply to this email.</p>
<p style="margin-top: 30px;">Best Regards,<br><strong>The Exotica Farms Team</strong></p>
<hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
<p style="font-size: 11px; color: #999;">Exotica Farms - Sustainable Protected Farming</p>
</div>
{{end}}
`))

// Raw HTML in replies is dropped by goldmark's default renderer.
var replyMarkdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderReplyBody(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := replyMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
