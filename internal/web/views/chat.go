package views

import (
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Texts shown in a robot bubble when a reply could not be produced
const (
	ChatServerError    = "Error from the server"
	ChatTransportError = "Failed to reach the server. Please try again later."
)

// ChatPage is the chat panel with the stored conversation
func ChatPage(p PageProps, history []domain.ChatMessage) g.Node {
	return Page(p,
		h.Section(
			h.Class("card chat-container"),
			h.Div(
				h.Class("list-header"),
				h.H2(g.Text("ChatBot")),
				h.Button(
					hx.Post("/app/chat/reset"),
					hx.Target("#chat-window"),
					hx.Swap("innerHTML"),
					g.Text("Clear"),
				),
			),
			h.Div(
				h.ID("chat-window"),
				h.Class("chat-window"),
				g.Map(history, func(m domain.ChatMessage) g.Node { return ChatBubble(m) }),
			),
			h.Div(h.ID("chat-typing"), h.Class("chat-bubble robot htmx-indicator"), g.Text("AI is typing...")),
			h.Form(
				h.ID("chat-form"),
				h.Class("input-container"),
				hx.Post("/app/chat/send"),
				hx.Target("#chat-window"),
				hx.Swap("beforeend"),
				g.Attr("hx-indicator", "#chat-typing"),
				g.Attr("hx-disabled-elt", "find input, find button"),
				g.Attr("hx-on::after-request", "if(event.detail.successful) this.reset()"),
				h.Input(h.Type("text"), h.Name("message"), h.Placeholder("Type a message..."), g.Attr("autocomplete", "off")),
				h.Button(h.Type("submit"), g.Text("Send")),
			),
			h.Script(g.Raw(chatScript)),
		),
	)
}

// ChatBubble is one message
func ChatBubble(m domain.ChatMessage) g.Node {
	return h.Div(h.Class("chat-bubble "+string(m.Sender)), g.Text(m.Content))
}

// ChatExchange is the pair appended after each send: the user's message and the reply
func ChatExchange(userText, robotText string) g.Node {
	return g.Group{
		ChatBubble(domain.ChatMessage{Content: userText, Sender: domain.SenderUser}),
		ChatBubble(domain.ChatMessage{Content: robotText, Sender: domain.SenderRobot}),
	}
}

// chatScript mirrors the exchange locally when the request never reached the server
const chatScript = `
(function () {
  var form = document.getElementById("chat-form");
  var win = document.getElementById("chat-window");
  function bubble(text, sender) {
    var div = document.createElement("div");
    div.className = "chat-bubble " + sender;
    div.textContent = text;
    win.appendChild(div);
  }
  form.addEventListener("htmx:sendError", function () {
    var input = form.querySelector("input[name=message]");
    if (input.value.trim() === "") return;
    bubble(input.value, "user");
    bubble("` + ChatTransportError + `", "robot");
    input.value = "";
  });
  form.addEventListener("htmx:afterSwap", function () { win.scrollTop = win.scrollHeight; });
})();
`
