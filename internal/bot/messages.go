package bot

// =============================================================================
// General messages
// =============================================================================

const (
	MsgOk            = `Ok!`
	MsgUnexpectedErr = `Unexpected error: %s`
	MsgStartPrompt   = "Use /categories to manage the category tree, /import for bulk CSV import, or /help for all commands."
	MsgCancelled     = "Cancelled."
	MsgHelp          = `
		*Commands*
		/categories - category tree
		/addcat <code> <name> - add a root category
		/import - bulk CSV import
		/stores - store list
		/addstore - add a store
		/items [query] - item list
		/additem - add an item
		/orders [store_code] [date] - order list
		/logs <menu|order|webhook> - sync logs
		/martlogs - GrabMart logs
		/summary - connector totals
		/login - log in to the connector
		/logout - log out
		/cancel - cancel the current input
	`
)

// =============================================================================
// Login flow messages
// =============================================================================

const (
	MsgLoginPromptEmail     = "Enter your email address:"
	MsgLoginPromptPassword  = "Enter your password:"
	MsgLoginSuccess         = "Logged in as %s."
	MsgLoginFailed          = "Login failed: %s"
	MsgLoginAlreadyLoggedIn = "You are already logged in as %s."
	MsgLoginRequired        = "You need to log in first. Use /login"
	MsgLoginCancelled       = "Login cancelled."
	MsgLoggedOut            = "Logged out."
)

// =============================================================================
// Category tree messages
// =============================================================================

const (
	MsgCategoriesEmpty     = "No categories yet. Use /addcat <code> <name> to create the first one."
	MsgCategoryFormPrompt  = "Send the category as `code | name`, or /cancel."
	MsgCategoryFormInvalid = "Expected `code | name`. Try again or /cancel."
	MsgCategoryNotFound    = "That category no longer exists. The tree was refreshed."
	MsgCategoryRowFailed   = "The connector rejected the category: %s"
	MsgAddCatUsage         = "Usage: `/addcat <code> <name>`"
	MsgNoPendingForm       = "No category form is open."
)

// =============================================================================
// Bulk import messages
// =============================================================================

const (
	MsgImportTemplate = `
		Upload a CSV document (or paste its contents) with the header:

		` + "`category_code, parent_category_code, name`" + `

		Leave parent\_category\_code empty for root categories. All rows must be
		valid or nothing is imported.
	`
	MsgImportRejected     = "Import rejected, nothing was submitted:\n%s"
	MsgImportEmptyFile    = "The file has no data rows."
	MsgImportPreview      = "Parsed %d categories. Submit them to the connector?"
	MsgImportResult       = "Import finished: %d created, %d failed."
	MsgImportNotAwaiting  = "No import in progress. Use /import to start one."
	MsgImportDownloadFail = "Could not download the document: %s"
)

// =============================================================================
// Confirmation messages
// =============================================================================

const (
	MsgConfirmExpired = "That confirmation is no longer pending."
	BtnConfirmYes     = "Yes"
	BtnConfirmNo      = "No"
)

// =============================================================================
// Plumbing screen messages
// =============================================================================

const (
	MsgStoresEmpty      = "No stores found."
	MsgStoreNotFound    = "That store no longer exists."
	MsgStoreFormPrompt  = "Send the store as `code | name | merchant_id`, or /cancel."
	MsgStoreFormInvalid = "Expected `code | name | merchant_id`. Try again or /cancel."
	MsgStoreEditPrompt  = "Send the new details as `name | address`, or /cancel."
	MsgStoreEditInvalid = "Expected `name | address`. Try again or /cancel."
	MsgItemsEmpty       = "No items found."
	MsgItemFormPrompt   = "Send the item as `code | name | price`, or /cancel."
	MsgItemFormInvalid  = "Expected `code | name | price` with a numeric price. Try again or /cancel."
	MsgItemEditPrompt   = "Send the new details as `name | price`, or /cancel."
	MsgItemEditInvalid  = "Expected `name | price` with a numeric price. Try again or /cancel."
	MsgProfitSynced     = "Profit sync requested: %s"
	MsgMerchantsEmpty   = "No partner merchants found."
	MsgOrdersEmpty      = "No orders found."
	MsgLogsEmpty        = "No log entries found."
	MsgLogsUsage        = "Usage: `/logs <menu|order|webhook>`"
	MsgResyncDone       = "Resync requested: %s"
	MsgOrderFinished    = "Order updated: %s"
	MsgMartLogUpdated   = "Log entry updated: %s"
	MsgSummary          = `
		*Connector summary*
		Categories: %d
		Stores: %d
		Items: %d
	`
)

// =============================================================================
// Admin command messages
// =============================================================================

const (
	MsgAdminUsage           = "Usage:\n`/admin users add <user_id>`\n`/admin users remove <user_id>`\n`/admin users list`"
	MsgAdminUserAddUsage    = "Usage: `/admin users add <user_id>`"
	MsgAdminUserRemoveUsage = "Usage: `/admin users remove <user_id>`"
	MsgAdminUserInvalidID   = "Invalid user ID. Provide a number."
	MsgAdminUserAdded       = "✅ User `%d` added."
	MsgAdminUserRemoved     = "🗑 User `%d` removed."
	MsgAdminNoUsers         = "No allowed users."
	MsgAdminAllowedUsers    = "*Allowed users:*\n"
)
