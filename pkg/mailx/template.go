package mailx

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var codeTemplate = template.Must(template.New("code").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .content {
            background-color: #f9f9f9;
            padding: 20px;
            border-radius: 5px;
        }
        .code {
            font-size: 32px;
            font-weight: bold;
            letter-spacing: 8px;
            text-align: center;
            padding: 16px 0;
        }
        .footer {
            margin-top: 20px;
            font-size: 12px;
            color: #777;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="content">
        <p>{{.Intro}}</p>
        <div class="code">{{.Code}}</div>
        <p>The code is valid for {{.ValidMinutes}} minutes and can only be used once.</p>
        <p>If you did not request this code, you can safely ignore this email.</p>
    </div>
    <div class="footer">
        <p>This is an automated message, please do not reply.</p>
        <p>&copy; {{.Year}} {{.Product}}</p>
    </div>
</body>
</html>
`))

type codeTemplateData struct {
	Subject      string
	Intro        string
	Code         string
	ValidMinutes int
	Year         int
	Product      string
}

// renderCode produces the subject line and HTML body for a code email.
func renderCode(product, code string, purpose Purpose, validFor time.Duration) (subject, body string, err error) {
	data := codeTemplateData{
		Code:         code,
		ValidMinutes: int(validFor.Minutes()),
		Year:         time.Now().Year(),
		Product:      product,
	}

	switch purpose {
	case PurposeLogin:
		data.Subject = fmt.Sprintf("Your %s sign-in code", product)
		data.Intro = "Use this code to sign in to your account:"
	default:
		data.Subject = fmt.Sprintf("Your %s verification code", product)
		data.Intro = "Use this code to finish creating your workspace:"
	}

	var buf bytes.Buffer
	if err := codeTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("mailx: render code template: %w", err)
	}
	return data.Subject, buf.String(), nil
}
