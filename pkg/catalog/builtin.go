package catalog

import (
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/dsl"
)

// Built-in service names.
const (
	WebsiteDevelopment   = "Website Development"
	LeadGeneration       = "Lead Generation"
	MobileAppDevelopment = "Mobile App Development"
	SEOOptimization      = "SEO Optimization"
)

// Builtin returns the graphs shipped with the binary, in display order.
func Builtin() []domain.Graph {
	return []domain.Graph{
		websiteDevelopment(),
		leadGeneration(),
		mobileAppDevelopment(),
		seoOptimization(),
	}
}

var budgetPatterns = []string{"budget", "cost", "spend", "price", "lakh", "usd", "inr", "$", "₹"}

var timelinePatterns = []string{"timeline", "deadline", "weeks", "months", "launch by", "asap"}

func websiteDevelopment() domain.Graph {
	return dsl.New(WebsiteDevelopment).
		Opening("Great, let's plan your website. I'll ask a few quick questions so we can put together a proposal.").
		Details("Pricing: starts at 25k for a 5-page business site\nTimeline: 3-6 weeks (with buffer)").
		Ask("project_type").Label("Project Type").
		SingleSelect("Business website", "E-commerce store", "Portfolio", "Blog", "Landing page").
		Required().
		Patterns("e-commerce", "ecommerce", "online store", "portfolio", "blog", "landing page").
		Say("What kind of website do you need?", "Which of these best describes the site?").
		Ask("pages").Label("Number of Pages").
		Text("1-5", "6-10", "11-20", "20+").
		Patterns("pages").
		Say("Roughly how many pages should it have?").
		Ask("features").Label("Features").
		MultiSelect("Contact form", "Online payments", "Booking system", "User accounts", "CMS", "Live chat").
		AllowCustom().
		Patterns("feature", "contact form", "booking", "cms", "live chat").
		Say("Which features do you need? Pick as many as you like.").
		Ask("payment_gateway").Label("Payment Gateway").
		SingleSelect("Stripe", "PayPal", "Razorpay", "Not sure yet").
		When(domain.OneOf("project_type", "E-commerce store")).
		Patterns("stripe", "paypal", "razorpay").
		Say("Which payment gateway would you like to use?").
		Ask("design_style").Label("Design Style").
		SingleSelect("Modern and minimal", "Bold and colorful", "Corporate", "Let the designer decide").
		Say("What design style are you going for?").
		Ask("budget").Label("Budget").
		Required().
		Patterns(budgetPatterns...).
		Say("What budget do you have in mind?", "Could you share an approximate budget, e.g. 40k or 2 lakh?").
		Ask("timeline").Label("Timeline").
		Text("ASAP", "2-4 weeks", "1-2 months", "Flexible").
		Required().
		Patterns(timelinePatterns...).
		Say("When would you like the site to go live?").
		Ask("contact_email").Label("Contact Email").
		Required().
		ForceAsk().
		Patterns("@").
		Say("Finally, what email should we send the proposal to?").
		MustBuild()
}

func leadGeneration() domain.Graph {
	channelsWithCRM := domain.Condition{Any: []domain.Condition{
		{Key: "channels", Equals: "Email"},
		{Key: "channels", Equals: "LinkedIn"},
	}}
	paidChannels := domain.Condition{Key: "channels", In: []string{"Google Ads", "Meta Ads"}}

	return dsl.New(LeadGeneration).
		Opening("Let's set up a lead generation plan for you.").
		Details("Pricing: retainer from 15k per month\nTimeline: first leads in 2-3 weeks (approx.)").
		Ask("industry").ID("industry").Label("Industry").
		Text("Real estate", "SaaS", "Healthcare", "Education", "E-commerce").
		Required().
		Patterns("industry", "we are in", "our business").
		Say("Which industry is your business in?").
		Next("channels").
		Ask("channels").ID("channels").Label("Channels").
		MultiSelect("Email", "LinkedIn", "Google Ads", "Meta Ads", "Cold calling").
		Required().
		Patterns("channel", "linkedin", "google ads", "meta ads", "cold calling").
		Say("Which channels should we run campaigns on?", "Pick one or more channels, for example Email and LinkedIn.").
		Next("crm").
		Ask("crm").ID("crm").Label("CRM").
		SingleSelect("HubSpot", "Salesforce", "Zoho", "None yet").
		When(channelsWithCRM).
		Patterns("crm", "hubspot", "salesforce", "zoho").
		Say("Which CRM should leads be synced to?").
		Next("lead_volume").
		Ask("lead_volume").ID("lead_volume").Label("Monthly Lead Target").
		Text("Under 100", "100-500", "500+").
		Patterns("leads per month", "leads a month").
		Say("How many leads per month are you aiming for?").
		Next("ad_spend").
		Ask("ad_spend").ID("ad_spend").Label("Ad Spend").
		When(paidChannels).
		Patterns("ad spend", "ad budget").
		Say("What monthly ad spend are you planning, separate from our fee?").
		Next("budget").
		Ask("budget").ID("budget").Label("Budget").
		Required().
		Patterns(budgetPatterns...).
		Say("What monthly budget do you have for our services?").
		Next("timeline").
		Ask("timeline").ID("timeline").Label("Timeline").
		Text("This month", "Next month", "Flexible").
		Patterns(timelinePatterns...).
		Say("When would you like to start?").
		Terminal().
		MustBuild()
}

func mobileAppDevelopment() domain.Graph {
	return dsl.New(MobileAppDevelopment).
		Opening("Exciting! Let's scope your app.").
		Details("Pricing: MVPs start at 1.5 lakh\nTimeline: 8-12 weeks (with buffer)").
		Ask("platform").ID("platform").Label("Platforms").
		MultiSelect("iOS", "Android", "Web").
		Required().
		Patterns("ios", "iphone", "android", "platform").
		Say("Which platforms should the app run on?").
		Next("app_type").
		Ask("app_type").ID("app_type").Label("App Type").
		SingleSelect("Consumer app", "Business tool", "Marketplace", "Game").
		Required().
		Patterns("marketplace", "game", "consumer", "business tool").
		Say("What type of app is it?").
		Next("has_design").
		Ask("has_design").ID("has_design").Label("Existing Designs").
		SingleSelect("Yes", "No").
		Say("Do you already have designs or wireframes?").
		Next("design_files").
		Ask("design_files").ID("design_files").Label("Design Files").
		When(domain.Equals("has_design", "Yes")).
		Patterns("figma", "sketch", "wireframe").
		Say("Where can we find them? A Figma link works great.").
		Next("features").
		Ask("features").ID("features").Label("Key Features").
		MultiSelect("Login", "Push notifications", "In-app payments", "Chat", "Maps", "Offline mode").
		AllowCustom().
		Patterns("push notification", "in-app", "offline", "maps").
		Say("Which key features do you need?").
		Next("backend").
		Ask("backend").ID("backend").Label("Backend").
		SingleSelect("Need a backend", "Have an existing API", "Not sure").
		Patterns("backend", "api", "server").
		Say("Do you need us to build the backend too?").
		Next("budget").
		Ask("budget").ID("budget").Label("Budget").
		Required().
		Patterns(budgetPatterns...).
		Say("What's your budget for the first version?").
		Next("timeline").
		Ask("timeline").ID("timeline").Label("Timeline").
		Text("1-2 months", "3-4 months", "Flexible").
		Required().
		Patterns(timelinePatterns...).
		Say("When do you need the first release?").
		Terminal().
		MustBuild()
}

func seoOptimization() domain.Graph {
	return dsl.New(SEOOptimization).
		Opening("Happy to help you rank higher. A few questions first.").
		Details("Pricing: audits from 10k, monthly plans from 20k\nTimeline: 3 months (estimated)").
		Ask("website_url").Label("Website").
		Required().
		ForceAsk().
		Patterns("http", "www.", ".com", ".in", ".io").
		Say("What's the URL of the site we'll be optimizing?").
		Ask("goals").Label("Goals").
		MultiSelect("More traffic", "Higher rankings", "Local SEO", "Technical audit").
		Required().
		Patterns("traffic", "ranking", "local seo", "audit").
		Say("What are your main SEO goals?").
		Ask("keywords").Label("Target Keywords").
		Patterns("keyword").
		Say("Any keywords you'd like to rank for?").
		Ask("competitors").Label("Competitors").
		NoSharedContext().
		Patterns("competitor").
		Say("Who are your main competitors online?").
		Ask("budget").Label("Budget").
		Required().
		Patterns(budgetPatterns...).
		Say("What monthly budget are you considering?").
		Ask("timeline").Label("Timeline").
		Text("1 month", "3 months", "6 months").
		Patterns(timelinePatterns...).
		Say("Over what timeframe do you want to see results?").
		MustBuild()
}
