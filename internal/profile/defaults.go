package profile

var defaultDomains = []Domain{
	{
		Name:       "Graphic Designing",
		Primary:    []string{"graphic design", "graphic designer", "visual design", "brand identity", "logo design"},
		Tools:      []string{"photoshop", "illustrator", "indesign", "coreldraw", "adobe creative suite", "figma"},
		Skills:     []string{"typography", "layout", "branding", "illustration", "color theory", "vector graphics"},
		Experience: []string{"poster design", "brochure", "packaging design", "print design", "digital design"},
	},
	{
		Name:       "AI Automation",
		Primary:    []string{"artificial intelligence", "machine learning", "automation", "ai engineer", "ml engineer"},
		Tools:      []string{"tensorflow", "pytorch", "opencv", "pandas", "numpy", "scikit-learn", "keras"},
		Skills:     []string{"deep learning", "neural networks", "nlp", "computer vision", "data science"},
		Experience: []string{"chatbot", "rpa", "workflow automation", "model training", "algorithm development"},
	},
	{
		Name:       "Accounting",
		Primary:    []string{"accounting", "accountant", "financial analyst", "bookkeeper", "auditor"},
		Tools:      []string{"quickbooks", "excel", "sap", "tally", "sage", "peachtree"},
		Skills:     []string{"financial reporting", "tax preparation", "budgeting", "cost accounting", "audit"},
		Experience: []string{"accounts payable", "accounts receivable", "payroll", "balance sheet", "income statement"},
	},
	{
		Name:       "Web Development",
		Primary:    []string{"web development", "web developer", "frontend developer", "backend developer"},
		Tools:      []string{"html", "css", "javascript", "php", "mysql", "bootstrap", "jquery"},
		Skills:     []string{"responsive design", "dom manipulation", "ajax", "rest api", "database design"},
		Experience: []string{"website development", "web application", "e-commerce", "cms development"},
	},
	{
		Name:       "MERN Stack",
		Primary:    []string{"mern stack", "mern developer", "full stack javascript", "react developer", "node developer"},
		Tools:      []string{"mongodb", "express", "react", "nodejs", "redux", "mongoose", "npm", "yarn"},
		Skills:     []string{"jsx", "hooks", "state management", "api integration", "component development"},
		Experience: []string{"spa development", "real-time applications", "microservices", "full stack projects"},
	},
	{
		Name:       "Full Stack Development",
		Primary:    []string{"full stack", "fullstack developer", "software developer", "application developer"},
		Tools:      []string{"docker", "kubernetes", "aws", "git", "jenkins", "linux", "nginx"},
		Skills:     []string{"microservices", "devops", "cloud computing", "api development", "database design"},
		Experience: []string{"end-to-end development", "system architecture", "deployment", "scalable applications"},
	},
	{
		Name:       "UI/UX Design",
		Primary:    []string{"ui design", "ux design", "user experience", "user interface", "interaction design"},
		Tools:      []string{"figma", "adobe xd", "sketch", "invision", "principle", "framer"},
		Skills:     []string{"wireframing", "prototyping", "user research", "usability testing", "design thinking"},
		Experience: []string{"mobile app design", "web design", "user journey", "information architecture"},
	},
}
