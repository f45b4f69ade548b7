package notify

import (
	"strings"
	"text/template"
	"time"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// markdownEscaper escapes the entities of Telegram's legacy Markdown.
var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

var messageTmpl = template.Must(template.New("submission").Funcs(template.FuncMap{
	"md": markdownEscaper.Replace,
}).Parse(`📚 *IELTS Reading Platform - New Submission*
━━━━━━━━━━━━━━━━━━━━
👤 *Student:* {{ or .StudentName "Unknown" | md }}
🎯 *Group:* {{ or .Group "No Group" | md }}
📖 *Book:* {{ or .Book "Unknown" | md }}
📝 *Unit:* {{ or .Unit "Unknown" | md }}
━━━━━━━━━━━━━━━━━━━━
📊 *Results:*
• Score: {{ .Score }}/{{ .TotalQuestions }} ({{ .Percentage }}%)
• Reading Time: {{ .ReadingTime }} minutes
• Vocabulary Found: {{ .VocabularyFound }} words
━━━━━━━━━━━━━━━━━━━━
⏰ *Submitted:* {{ .Submitted }}
🆔 *Student ID:* {{ or .StudentID "Unknown" | md }}`))

// Message renders the Markdown text posted for a submission.
func Message(sub Submission, now time.Time) string {
	var b strings.Builder
	data := struct {
		Submission
		Submitted string
	}{sub, sub.SubmittedAt(now).UTC().Format(timeLayout)}
	// the template only reads fields of data, so it cannot fail
	_ = messageTmpl.Execute(&b, data)
	return b.String()
}
