package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/grabsync/admin-bot/internal/grab"
)

// NodeMode is the per-node form state of the tree screen. Modes are keyed by
// node id, so opening a form on one node never clobbers another node's state.
type NodeMode int

const (
	NodeModeNone NodeMode = iota
	NodeModeEditing
	NodeModeAddingChild
)

// CategoryView is the per-session state of the category tree screen. The
// fetched tree is a cache for rendering only; every mutation goes through the
// connector and is followed by a full refetch.
type CategoryView struct {
	tree     []grab.Category
	expanded map[string]bool
	nodeMode map[string]NodeMode
	// formNode is the node whose form receives the next text input. Empty
	// with awaitingRoot set means a root add form is open.
	formNode     string
	awaitingRoot bool
	msgID        int
	status       string
}

func (v *CategoryView) reset() {
	v.tree = nil
	v.expanded = nil
	v.nodeMode = nil
	v.formNode = ""
	v.awaitingRoot = false
	v.msgID = 0
	v.status = ""
}

func (v *CategoryView) ensureMaps() {
	if v.expanded == nil {
		v.expanded = make(map[string]bool)
	}
	if v.nodeMode == nil {
		v.nodeMode = make(map[string]NodeMode)
	}
}

// CategoryHandler drives the category tree screen.
type CategoryHandler struct {
	tg BotAPI
}

func NewCategoryHandler(tg BotAPI) *CategoryHandler {
	return &CategoryHandler{tg: tg}
}

// HandleCategoriesCommand handles /categories [active|inactive].
// Called from session worker - no locking needed.
func (h *CategoryHandler) HandleCategoriesCommand(ctx context.Context, session *UserSession, args []string) {
	session.catView.ensureMaps()
	session.catView.msgID = 0 // start a fresh tree message
	if len(args) > 0 && (args[0] == "active" || args[0] == "inactive") {
		session.catView.status = args[0]
	} else {
		session.catView.status = ""
	}

	if err := h.refetch(ctx, session); err != nil {
		session.replyWithError(err)
		return
	}
	h.render(session)
}

// refetch replaces the cached tree with a fresh fetch. Expand flags and node
// modes of nodes that no longer exist are dropped; surviving nodes keep
// theirs, so collapsing a parent does not lose descendant state.
func (h *CategoryHandler) refetch(ctx context.Context, session *UserSession) error {
	tree, err := session.api.ListCategories(ctx, session.catView.status)
	if err != nil {
		return err
	}

	v := &session.catView
	v.ensureMaps()
	v.tree = tree

	alive := make(map[string]bool)
	var walk func(nodes []grab.Category)
	walk = func(nodes []grab.Category) {
		for i := range nodes {
			alive[nodes[i].ID] = true
			walk(nodes[i].SubCategory)
		}
	}
	walk(tree)

	for id := range v.expanded {
		if !alive[id] {
			delete(v.expanded, id)
		}
	}
	for id := range v.nodeMode {
		if !alive[id] {
			delete(v.nodeMode, id)
			if v.formNode == id {
				v.formNode = ""
			}
		}
	}

	return nil
}

// render draws the tree into the screen's message, editing it in place when
// one already exists.
func (h *CategoryHandler) render(session *UserSession) {
	v := &session.catView

	var sb strings.Builder
	sb.WriteString("*Categories*")
	if v.status != "" {
		fmt.Fprintf(&sb, " (%s)", v.status)
	}
	sb.WriteString("\n")

	if len(v.tree) == 0 {
		sb.WriteString(MsgCategoriesEmpty)
	} else {
		h.renderNodes(&sb, v, v.tree, 0)
	}

	keyboard := h.treeKeyboard(v)

	if v.msgID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(session.userId, v.msgID, sb.String(), keyboard)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := h.tg.Send(edit); err != nil {
			log.Warn().Err(err).Int64("userId", session.userId).Msg("failed to edit tree message")
		}
		return
	}

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	sent, err := h.tg.Send(msg)
	if err != nil {
		log.Error().Err(err).Int64("userId", session.userId).Msg("failed to send tree message")
		return
	}
	v.msgID = sent.MessageID
}

func (h *CategoryHandler) renderNodes(sb *strings.Builder, v *CategoryView, nodes []grab.Category, depth int) {
	for i := range nodes {
		node := &nodes[i]
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(nodeMarker(v, node))
		sb.WriteString(" ")
		fmt.Fprintf(sb, "`%s` %s", escapeMarkdown(node.Code), escapeMarkdown(node.Name))
		if node.IsActive == 0 {
			sb.WriteString(" _(inactive)_")
		}
		switch v.nodeMode[node.ID] {
		case NodeModeEditing:
			sb.WriteString(" ✏️")
		case NodeModeAddingChild:
			sb.WriteString(" ➕")
		}
		sb.WriteString("\n")

		if v.expanded[node.ID] {
			h.renderNodes(sb, v, node.SubCategory, depth+1)
		}
	}
}

func nodeMarker(v *CategoryView, node *grab.Category) string {
	if len(node.SubCategory) == 0 {
		return "•"
	}
	if v.expanded[node.ID] {
		return "▾"
	}
	return "▸"
}

// treeKeyboard builds one row per visible node: the node button toggles
// expansion, the ⋯ button opens the node menu.
func (h *CategoryHandler) treeKeyboard(v *CategoryView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var walk func(nodes []grab.Category, depth int)
	walk = func(nodes []grab.Category, depth int) {
		for i := range nodes {
			node := &nodes[i]
			label := strings.Repeat("  ", depth) + nodeMarker(v, node) + " " + node.Code
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, "ct:x:"+node.ID),
				tgbotapi.NewInlineKeyboardButtonData("⋯", "ct:n:"+node.ID),
			))
			if v.expanded[node.ID] {
				walk(node.SubCategory, depth+1)
			}
		}
	}
	walk(v.tree, 0)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↻ Refresh", "ct:refresh:-"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// HandleCallback routes ct:* callbacks.
// Called from session worker - no locking needed.
func (h *CategoryHandler) HandleCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	parts := strings.SplitN(query.Data, ":", 3)
	if len(parts) != 3 {
		return
	}
	op, id := parts[1], parts[2]
	session.catView.ensureMaps()

	switch op {
	case "x":
		session.catView.expanded[id] = !session.catView.expanded[id]
		h.render(session)
	case "refresh":
		if err := h.refetch(ctx, session); err != nil {
			session.replyWithError(err)
			return
		}
		h.render(session)
	case "n":
		h.showNodeMenu(session, id)
	case "back":
		h.render(session)
	case "add":
		h.openForm(session, id, NodeModeAddingChild)
	case "edit":
		h.openForm(session, id, NodeModeEditing)
	case "del":
		h.confirmDelete(session, id)
	case "act":
		h.confirmToggleActive(session, id)
	}
}

// showNodeMenu edits the tree message into a per-node action menu.
func (h *CategoryHandler) showNodeMenu(session *UserSession, id string) {
	v := &session.catView
	node := grab.FindCategory(v.tree, id)
	if node == nil {
		session.reply(MsgCategoryNotFound)
		h.render(session)
		return
	}

	active := "active"
	toggleLabel := "Deactivate"
	if node.IsActive == 0 {
		active = "inactive"
		toggleLabel = "Activate"
	}
	text := formatReplyText(`
		*%s*
		Code: `+"`%s`"+`
		Status: %s
		Children: %d
	`, escapeMarkdown(node.Name), escapeMarkdown(node.Code), active, len(node.SubCategory))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add child", "ct:add:"+id),
			tgbotapi.NewInlineKeyboardButtonData("Edit", "ct:edit:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, "ct:act:"+id),
			tgbotapi.NewInlineKeyboardButtonData("Delete", "ct:del:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back", "ct:back:-"),
		),
	)

	if v.msgID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(session.userId, v.msgID, text, keyboard)
		edit.ParseMode = tgbotapi.ModeMarkdown
		h.tg.Send(edit)
		return
	}
	msg := tgbotapi.NewMessage(session.userId, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if sent, err := h.tg.Send(msg); err == nil {
		v.msgID = sent.MessageID
	}
}

// openForm marks the node as awaiting form input and prompts for it. The
// node's mode survives other nodes' forms being opened; only the text input
// target moves to the most recently opened form.
func (h *CategoryHandler) openForm(session *UserSession, id string, mode NodeMode) {
	v := &session.catView
	if grab.FindCategory(v.tree, id) == nil {
		session.reply(MsgCategoryNotFound)
		h.render(session)
		return
	}
	v.nodeMode[id] = mode
	v.formNode = id
	v.awaitingRoot = false
	h.render(session)
	session.reply(MsgCategoryFormPrompt)
}

// HandleAddCatCommand handles /addcat <code> <name...>, and bare /addcat
// which opens a guided root form.
// Called from session worker - no locking needed.
func (h *CategoryHandler) HandleAddCatCommand(ctx context.Context, session *UserSession, args []string) {
	session.catView.ensureMaps()
	if len(args) == 0 {
		session.catView.awaitingRoot = true
		session.catView.formNode = ""
		session.reply(MsgCategoryFormPrompt)
		return
	}
	if len(args) < 2 {
		session.reply(MsgAddCatUsage)
		return
	}

	code := args[0]
	name := strings.Join(args[1:], " ")
	h.confirmCreate(session, code, name, nil)
}

// HandleFormInput consumes "code | name" text when a form is open.
// Returns true if the message was consumed.
// Called from session worker - no locking needed.
func (h *CategoryHandler) HandleFormInput(ctx context.Context, session *UserSession, text string) bool {
	v := &session.catView
	if v.formNode == "" && !v.awaitingRoot {
		return false
	}

	if text == "/cancel" {
		if v.formNode != "" {
			delete(v.nodeMode, v.formNode)
			v.formNode = ""
			h.render(session)
		}
		v.awaitingRoot = false
		session.reply(MsgCancelled)
		return true
	}
	if strings.HasPrefix(text, "/") {
		return false
	}

	code, name, ok := parseCategoryForm(text)
	if !ok {
		session.reply(MsgCategoryFormInvalid)
		return true
	}

	if v.awaitingRoot {
		h.confirmCreate(session, code, name, nil)
		return true
	}

	nodeID := v.formNode
	switch v.nodeMode[nodeID] {
	case NodeModeAddingChild:
		parentID := nodeID
		h.confirmCreate(session, code, name, &parentID)
	case NodeModeEditing:
		h.confirmEdit(session, nodeID, code, name)
	default:
		session.reply(MsgNoPendingForm)
		v.formNode = ""
	}
	return true
}

// confirmCreate queues a create behind the confirmation gate. parentID nil
// means a root category.
func (h *CategoryHandler) confirmCreate(session *UserSession, code, name string, parentID *string) {
	desc := fmt.Sprintf("Create category `%s` %s?", escapeMarkdown(code), escapeMarkdown(name))
	if parentID != nil {
		if parent := grab.FindCategory(session.catView.tree, *parentID); parent != nil {
			desc = fmt.Sprintf("Create category `%s` %s under *%s*?",
				escapeMarkdown(code), escapeMarkdown(name), escapeMarkdown(parent.Name))
		}
	}

	req := session.confirm.Add("Create category", desc, func(ctx context.Context) {
		row := grab.NewCategory{Code: code, Name: name, IsActive: 1, ParentCategoryID: parentID}
		result, err := session.api.CreateCategories(ctx, []grab.NewCategory{row})
		if err != nil {
			session.replyWithError(err)
			return
		}
		if len(result.Failed) > 0 {
			// Keep the form open so the operator can correct the input.
			session.reply(MsgCategoryRowFailed, escapeMarkdown(result.Failed[0].Reason))
			return
		}
		h.closeFormFor(session, parentID)
		if err := h.refetch(ctx, session); err != nil {
			session.replyWithError(err)
			return
		}
		h.render(session)
	})
	h.sendConfirm(session, req)
}

func (h *CategoryHandler) confirmEdit(session *UserSession, id, code, name string) {
	desc := fmt.Sprintf("Update category to `%s` %s?", escapeMarkdown(code), escapeMarkdown(name))
	req := session.confirm.Add("Edit category", desc, func(ctx context.Context) {
		msg, err := session.api.UpdateCategory(ctx, id, grab.UpdateCategoryParams{Code: &code, Name: &name})
		if err != nil {
			session.replyWithError(err)
			return
		}
		delete(session.catView.nodeMode, id)
		if session.catView.formNode == id {
			session.catView.formNode = ""
		}
		session.reply("%s", escapeMarkdown(msg))
		if err := h.refetch(ctx, session); err != nil {
			session.replyWithError(err)
			return
		}
		h.render(session)
	})
	h.sendConfirm(session, req)
}

func (h *CategoryHandler) confirmDelete(session *UserSession, id string) {
	node := grab.FindCategory(session.catView.tree, id)
	if node == nil {
		session.reply(MsgCategoryNotFound)
		h.render(session)
		return
	}

	desc := fmt.Sprintf("Delete category *%s* (`%s`)?", escapeMarkdown(node.Name), escapeMarkdown(node.Code))
	if n := grab.CountNodes(node.SubCategory); n > 0 {
		desc = fmt.Sprintf("Delete category *%s* (`%s`) and its %d descendants?",
			escapeMarkdown(node.Name), escapeMarkdown(node.Code), n)
	}

	req := session.confirm.Add("Delete category", desc, func(ctx context.Context) {
		msg, err := session.api.DeleteCategory(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply("%s", escapeMarkdown(msg))
		if err := h.refetch(ctx, session); err != nil {
			session.replyWithError(err)
			return
		}
		h.render(session)
	})
	h.sendConfirm(session, req)
}

func (h *CategoryHandler) confirmToggleActive(session *UserSession, id string) {
	node := grab.FindCategory(session.catView.tree, id)
	if node == nil {
		session.reply(MsgCategoryNotFound)
		h.render(session)
		return
	}

	newState := 1 - node.IsActive
	verb := "Deactivate"
	if newState == 1 {
		verb = "Activate"
	}
	desc := fmt.Sprintf("%s category *%s*?", verb, escapeMarkdown(node.Name))
	code := node.Code

	req := session.confirm.Add("Toggle category", desc, func(ctx context.Context) {
		msg, err := session.api.UpdateCategory(ctx, id, grab.UpdateCategoryParams{IsActive: &newState, Code: &code})
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply("%s", escapeMarkdown(msg))
		if err := h.refetch(ctx, session); err != nil {
			session.replyWithError(err)
			return
		}
		h.render(session)
	})
	h.sendConfirm(session, req)
}

// closeFormFor clears the form state after a successful create. For child
// adds the parent node's mode is cleared; for root adds the root flag.
func (h *CategoryHandler) closeFormFor(session *UserSession, parentID *string) {
	v := &session.catView
	if parentID == nil {
		v.awaitingRoot = false
		return
	}
	delete(v.nodeMode, *parentID)
	if v.formNode == *parentID {
		v.formNode = ""
	}
}

func (h *CategoryHandler) sendConfirm(session *UserSession, req *ConfirmRequest) {
	msg := tgbotapi.NewMessage(session.userId, req.Description)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = confirmKeyboard(req)
	session.replyWithMessage(msg)
}
