// Package action implements the host plugin contract for custom actions.
//
// The conversational runtime calls an action by name with a tracker snapshot
// of the conversation. The action utters messages through a Dispatcher and
// returns a list of events for the runtime to apply.
//
// Wire format (action server webhook):
//
//	request:  {"next_action", "sender_id", "tracker", "domain", "version"}
//	response: {"events": [...], "responses": [...]}
//	error:    {"error": "...", "action_name": "..."}
package action
