package assistant

import "strings"

type cannedReply struct {
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"apply", "application", "statement"},
		reply:    "To apply, open the project page and submit an application with a short statement. Filling in your skills and research interests first makes your application stronger.",
	},
	{
		keywords: []string{"match", "score"},
		reply:    "The match score compares your profile with the project's research field, required skills and description. A more complete profile gives a more accurate score.",
	},
	{
		keywords: []string{"resume", "upload"},
		reply:    "You can upload a PDF or DOCX resume on your profile page. The platform extracts fields like major, skills and project experience, and you choose what to keep.",
	},
	{
		keywords: []string{"project", "post", "recruit"},
		reply:    "Teachers can create a project with a title, description, research field and required skills. The description can be expanded from keywords into a full posting.",
	},
}

const localDefaultReply = "I can help with finding projects, applying, match scores and resume uploads. What would you like to know?"

// LocalReply answers from a fixed keyword table. Used when the deployment
// runs without a generative backend.
func LocalReply(message string) string {
	m := strings.ToLower(message)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(m, kw) {
				return c.reply
			}
		}
	}
	return localDefaultReply
}
