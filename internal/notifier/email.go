package notifier

import (
	"fmt"
	"strings"

	"property-service/internal/model"
)

// buildCreationEmail renders the subject and both bodies of the property
// creation email.
func buildCreationEmail(p *model.Property, owner *model.User) (subject, plainText, htmlContent string) {
	subject = fmt.Sprintf("New Property Created: %s", p.Name)

	plainText = fmt.Sprintf(
		"Hello %s,\n\nYour property has been successfully registered in our system.\n\n"+
			"Name: %s\nType: %s\nCity: %s\nPrice: $%.2f\n",
		owner.Name, p.Name, typeDisplayName(p.RealEstateType), p.City, p.Price)

	htmlContent = fmt.Sprintf(
		`<h1>New Property Created!</h1>
<p>Hello <strong>%s</strong>,</p>
<p>Your property has been successfully registered in our system.</p>
<h2>%s</h2>
<ul>
  <li><strong>Type:</strong> %s</li>
  <li><strong>City:</strong> %s</li>
  <li><strong>Price:</strong> $%.2f</li>
</ul>`,
		owner.Name, p.Name, typeDisplayName(p.RealEstateType), p.City, p.Price)

	return subject, plainText, htmlContent
}

// typeDisplayName converts a snake_case type value to Title Case.
func typeDisplayName(t string) string {
	words := strings.Split(t, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
