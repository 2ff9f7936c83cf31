package template

// DefaultTemplate is the embedded confirmation shown once a booking is
// submitted. It uses {{variable}} placeholders for dynamic content injection.
const DefaultTemplate = `# You're booked in at {{studio}}

Thanks {{name}}! Your request has been sent to **{{artist}}**.

**Reference:** ` + "`{{reference}}`" + `

| | |
|---|---|
| When | {{date}} at {{time}} |
| Placement | {{placement}} |
| Size | {{size}} |
| Budget | {{budget}} |

**Your idea**

{{description}}
{{notes}}{{attachment}}
We'll confirm by email at {{email}} or call {{phone}} within two working days.
A deposit secures the slot once the artist has reviewed your idea.
{{hooks}}`

// ReviewTemplate lays out the draft on the review step.
const ReviewTemplate = `## Review your booking

| | |
|---|---|
| Artist | {{artist}} |
| Placement | {{placement}} |
| Size | {{size}} |
| Date | {{date}} |
| Time | {{time}} |
| Budget | {{budget}} |
| Name | {{name}} |
| Email | {{email}} |
| Phone | {{phone}} |

**Your idea**

{{description}}
{{notes}}{{attachment}}{{warnings}}`
