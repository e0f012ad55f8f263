package telegram

import "github.com/gotd/td/tg"

// FullAdminRights is the right set granted to the session account.
// Anonymous posting is only meaningful in supergroups.
func FullAdminRights(megagroup bool) tg.ChatAdminRights {
	return tg.ChatAdminRights{
		ChangeInfo:     true,
		PostMessages:   true,
		EditMessages:   true,
		DeleteMessages: true,
		BanUsers:       true,
		InviteUsers:    true,
		PinMessages:    true,
		AddAdmins:      true,
		Anonymous:      megagroup,
		ManageCall:     true,
		Other:          true,
	}
}

// BotAdminRights is the restricted right set granted to configured bots
func BotAdminRights() tg.ChatAdminRights {
	return tg.ChatAdminRights{
		PostMessages:   true,
		DeleteMessages: true,
		PinMessages:    true,
	}
}
