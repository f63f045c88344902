package prompt

// Fixed blocks of the Quick Fix prompt. The wording is consumed by the
// model as-is; edit with care since response handling expects a fenced
// block back.
const (
	agentRoleHeading = "\n\n## Agent Role and Instructions\n\n" +
		"You are acting as a specialized agent with the following role and instructions:\n\n"
	agentRoleFooter = "\n\n**IMPORTANT**: Follow the above role and instructions throughout this conversation.\n" +
		"\n---\n"

	pathFormatAdvisory = "\n\n## CRITICAL: File Path Format Requirement\n\n" +
		"**IMPORTANT**: There's a file modification bug in Claude Code. The workaround is: always use complete absolute Windows paths with drive letters and backslashes for ALL file operations.\n\n" +
		"**Examples**:\n" +
		"- ✅ Correct: `C:\\Users\\username\\project\\src\\file.js`\n" +
		"- ❌ Wrong: `/c/Users/username/project/src/file.js`\n" +
		"- ❌ Wrong: `./src/file.js` (relative paths)\n\n" +
		"---\n\n"

	contextPreamble = "\n\n## User's Current IDE Context\n\n" +
		"The user is working in an IDE. Below is their current workspace context.\n\n" +
		"**Context Priority Rules**:\n" +
		"1. If code is selected → That specific code is the PRIMARY SUBJECT\n" +
		"2. If no code is selected → The currently active file is the PRIMARY SUBJECT\n" +
		"3. PSI semantic context → Use this to understand code structure and relationships\n\n"

	activeFileHeading   = "### Currently Active File\n\n"
	focusedCodeHeading  = "### Focused Code Context\n"
	lombokAdvisory      = "> **INFO**: Lombok detected. Assume all getters/setters/constructors are available.\n\n"
	inspectionsHeading  = "#### Code Inspections\n"
	highlightsHeading   = "#### Editor Highlights\n"
	codeFenceOpenJava   = "```java\n"
	codeFenceOpenPlain  = "```\n"
	codeFenceCloseBlock = "\n```\n\n"

	quickFixHeading = "\n\n## QUICK FIX INSTRUCTIONS\n\n" +
		"You are in QUICK FIX mode. The user wants to specifically fix or improve the code at their cursor or selection.\n"
	quickFixTask = "### YOUR CORE TASK:\n" +
		"1. Analyze the provided context perfectly.\n" +
		"2. **FORMAT REQUIREMENT**: You MUST provide the full updated content of the active file within a triplet of backticks with the language specified (e.g., ```java). The Java backend will use this full content to show a Diff.\n" +
		"3. Start your response with a brief explanation of what you fixed, followed by the code block.\n"
)
