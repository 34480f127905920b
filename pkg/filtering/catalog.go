// Package filtering turns plaintext domain lists into a merged, whitelisted
// set of sinkhole entries.
package filtering

// ListDefinition describes a built-in list.
type ListDefinition struct {
	ID   string
	Name string
	URL  string
}

// Catalog lists well-known blocklists that configuration may refer to by ID.
var Catalog = map[string]ListDefinition{}

func init() {
	for _, def := range []ListDefinition{
		{"disconnect_tracking", "Simple tracking", "https://s3.amazonaws.com/lists.disconnect.me/simple_tracking.txt"},
		{"disconnect_ads", "Simple ads", "https://s3.amazonaws.com/lists.disconnect.me/simple_ad.txt"},
		{"stevenblack", "StevenBlack blocklist", "https://raw.githubusercontent.com/StevenBlack/hosts/master/hosts"},
		{"cameleon", "Cameleon blocklist", "https://sysctl.org/cameleon/hosts"},
		{"xiaomi_kevle2", "Xiaomi spyware blocklist (kevle2)", "https://raw.githubusercontent.com/kevle2/XiaomiSpywareBlockList/master/xiaomiblock.txt"},
		{"youtube_kboghdady", "YouTube ads (kboghdady)", "https://raw.githubusercontent.com/kboghdady/youTube_ads_4_pi-hole/master/black.list"},
		{"youtube_akamaru", "YouTube ads (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/youtube.txt"},
		{"hbbtv_akamaru", "HbbTV ads (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/hbbtv.txt"},
		{"windows_akamaru", "Windows ads (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/nomsdata.txt"},
		{"appads_akamaru", "Android & iOS ads (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/appads.txt"},
		{"jbfake_akamaru", "Fake jailbreak websites (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/jbfake.txt"},
		{"adobe_akamaru", "Adobe updates (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/adobeblock.txt"},
		{"gamefake_akamaru", "Fake emulators (Akamaru)", "https://raw.githubusercontent.com/Akamaru/Pi-Hole-Lists/master/gamefake.txt"},
		{"adsecu", "ADsecu blocklist", "https://raw.githubusercontent.com/ADsecu/black-domains/master/domain_hosts.txt"},
		{"mifit_sweetsophia", "SweetSophia blocklist", "https://raw.githubusercontent.com/SweetSophia/mifitxiaomipiholelist/master/mifitblocklist.txt"},
		{"android_sweetsophia", "Android ads (SweetSophia)", "https://raw.githubusercontent.com/SweetSophia/androidappspihole/master/testrareandroappblock.txt"},
		{"zebpalmer", "Blocklist (zebpalmer)", "https://raw.githubusercontent.com/zebpalmer/dns_blocklists/master/blocklist.txt"},
		{"lightswitch05_ads", "Ads and tracking extended (lightswitch05)", "https://raw.githubusercontent.com/lightswitch05/hosts/master/ads-and-tracking-extended.txt"},
		{"lightswitch05_amp", "Amp hosts extended (lightswitch05)", "https://raw.githubusercontent.com/lightswitch05/hosts/master/amp-hosts-extended.txt"},
		{"lightswitch05_tracking", "Tracking aggressive (lightswitch05)", "https://raw.githubusercontent.com/lightswitch05/hosts/master/tracking-aggressive-extended.txt"},
		{"dnscrypt_mybase", "dnscrypt.info blacklist", "https://download.dnscrypt.info/blacklists/domains/mybase.txt"},
		{"dnscrypt_cnman", "dnscrypt-proxy blacklist", "https://raw.githubusercontent.com/CNMan/dnscrypt-proxy-config/master/dnscrypt-blacklist-domains.txt"},
		{"zeffy_activation", "dnscrypt - activation blocklist", "https://raw.githubusercontent.com/zeffy/dnscrypt-blocking-additions/master/hosts/blacklist/activation.txt"},
		{"zeffy_ads", "dnscrypt - ads blocklist", "https://raw.githubusercontent.com/zeffy/dnscrypt-blocking-additions/master/hosts/blacklist/ads.txt"},
		{"zeffy_anticheat", "dnscrypt - anticheat blocklist", "https://raw.githubusercontent.com/zeffy/dnscrypt-blocking-additions/master/hosts/blacklist/anticheat.txt"},
		{"zeffy_fakenews", "dnscrypt - fakenews blocklist", "https://raw.githubusercontent.com/zeffy/dnscrypt-blocking-additions/master/hosts/blacklist/fakenews.txt"},
		{"zeffy_tracking", "dnscrypt - tracking blocklist", "https://raw.githubusercontent.com/zeffy/dnscrypt-blocking-additions/master/hosts/blacklist/tracking.txt"},
		{"zeffy_misc", "dnscrypt - misc blocklist", "https://raw.githubusercontent.com/zeffy/dnscrypt-blocking-additions/master/hosts/blacklist/misc.txt"},
		{"windowsspyblocker_spy", "WindowsSpyBlocker - spy (crazy-max)", "https://raw.githubusercontent.com/crazy-max/WindowsSpyBlocker/master/data/dnscrypt/spy.txt"},
		{"windowsspyblocker_update", "WindowsSpyBlocker - update (crazy-max)", "https://raw.githubusercontent.com/crazy-max/WindowsSpyBlocker/master/data/dnscrypt/update.txt"},
		{"windowsspyblocker_extra", "WindowsSpyBlocker - extra (crazy-max)", "https://raw.githubusercontent.com/crazy-max/WindowsSpyBlocker/master/data/dnscrypt/extra.txt"},
	} {
		Catalog[def.ID] = def
	}
}
