package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	ToolExtractFile  = "trademark_extract_file"
	ToolBillingBatch = "trademark_billing_batch"
	ToolListPackets  = "trademark_list_packets"
	ToolValidateFile = "pdf_validate_file"
)

// Tool descriptions with practical examples and use cases

const (
	ExtractFileDescription = `Extract billing data from one trademark registration application packet.

**When to use:** Need the applicant, unified social credit code, filing date and trademark/category pairs of a single PDF packet.

**Why it's useful:** Reads every page, recovers the header fields from the application form and pairs each category code with the trademark named in the power of attorney that follows it.

**Examples:**
• Check one packet: "Extract the billing fields from 星河-第15类.pdf"
• Find gaps before billing: "Which trademarks in packet-042.pdf still need a category entered by hand?"

**Output:** JSON with applicant, registration_id, filing_date (null when not found), entries and diagnostics. Entries with manual_input_required need a category entered by hand before they can be billed.

**Best practices:** Run pdf_validate_file first on packets from unknown sources. Review warning diagnostics before issuing invoices.`

	BillingBatchDescription = `Build payment requests for every applicant found in a set of packets.

**When to use:** Need invoices (请款单) and the invoice application sheet (发票申请表) for a batch of trademark registration packets.

**Why it's useful:** Extracts every packet concurrently, merges packets that share an applicant, prices each billable trademark/category pair with the official fee and the agent fee, and renders the totals in Chinese uppercase.

**Examples:**
• Bill a folder: "Create the payment requests for all packets in the configured directory"
• Bill selected packets with a custom agent fee: "Bill a.pdf and b.pdf with an agent fee of 800"

**Parameters:** paths is a comma separated list of packet paths; when empty every packet in directory (or the configured directory) is used. agent_fee overrides the configured agent fee. format selects json, markdown or html.

**Best practices:** Pairs still awaiting manual category input are listed as unresolved and never billed. Applicants without any billable pair are reported as skipped.`

	ListPacketsDescription = `List the application packets available for billing.

**When to use:** Need to discover which PDF packets exist before extracting or billing them.

**Examples:**
• "List all packets in the configured directory"
• "Find packets whose name contains 星河"

**Best practices:** Use the returned paths with trademark_extract_file or trademark_billing_batch.`

	ValidateFileDescription = `Verify a packet is a structurally sound PDF before processing.

**When to use:** Before extracting a packet from an unknown source, or when extraction reports the document as unreadable.

**Why it's useful:** Parses the cross reference table and page tree, reporting the page count of valid files and the reason for rejection otherwise.

**Best practices:** Scanned packets can be valid PDFs and still carry no extractable text; text recovery needs a text layer.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolExtractFile:  ExtractFileDescription,
	ToolBillingBatch: BillingBatchDescription,
	ToolListPackets:  ListPacketsDescription,
	ToolValidateFile: ValidateFileDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
