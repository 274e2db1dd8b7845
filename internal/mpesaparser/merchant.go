package mpesaparser

import (
	"regexp"
	"strings"
)

// Payment channel kinds recognized from description verbs.
const (
	ChannelSendMoney    = "send_money"
	ChannelPaybill      = "paybill"
	ChannelTill         = "till"
	ChannelBusiness     = "business"
	ChannelReceiveMoney = "receive_money"
)

// merchantTemplates are tried in order against the row description; the
// first matching template wins. Each captures the channel identifier
// (phone or paybill/till code) and the counterparty name.
var merchantTemplates = []struct {
	channel string
	re      *regexp.Regexp
}{
	{ChannelSendMoney, regexp.MustCompile(`(?i)transfer(?:\s+of\s+funds)?\s+to\s+([\d*+]+)\s*-\s*(.+)$`)},
	{ChannelPaybill, regexp.MustCompile(`(?i)pay\s?bill(?:\s+\w+)?\s+to\s+(\w+)\s*-\s*(.+)$`)},
	{ChannelTill, regexp.MustCompile(`(?i)merchant\s+payment(?:\s+\w+)?\s+to\s+(\w+)\s*-\s*(.+)$`)},
	{ChannelBusiness, regexp.MustCompile(`(?i)business\s+payment\s+from\s+(\w+)\s*-\s*(.+)$`)},
	{ChannelReceiveMoney, regexp.MustCompile(`(?i)funds\s+received\s+from\s+([\d*+]+)\s*-\s*(.+)$`)},
}

// extractMerchant pulls the counterparty name and payment channel out of a
// row description. When no verb template matches but the description carries
// a " - " separator, the text after the last separator is used as a
// fallback merchant with no channel information.
func extractMerchant(desc string) (merchant, channel, code string) {
	for _, t := range merchantTemplates {
		if m := t.re.FindStringSubmatch(desc); len(m) > 2 {
			merchant = strings.TrimSpace(m[2])
			channel = t.channel
			// Phone numbers identify people, not fixed merchant
			// channels; only paybill/till/business codes participate in
			// exact-identifier matching.
			switch t.channel {
			case ChannelPaybill, ChannelTill, ChannelBusiness:
				code = m[1]
			}
			return merchant, channel, code
		}
	}

	if idx := strings.LastIndex(desc, " - "); idx >= 0 {
		if name := strings.TrimSpace(desc[idx+3:]); name != "" {
			return name, "", ""
		}
	}
	return "", "", ""
}
