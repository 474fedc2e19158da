package chrome

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mj1618/slidescene/internal/dom"
)

// Functions run with `this` bound to the element handle. Arguments are
// formatted into the source as JSON literals.

const childTagsJS = `function() {
	return Array.from(this.children).map(c => c.tagName.toLowerCase());
}`

const childAtJS = `function() { return this.children[%d] || null; }`

const tagNameJS = `function() { return this.tagName.toLowerCase(); }`

const snapshotJS = `function() {
	const cs = window.getComputedStyle(this);
	const style = {};
	for (const p of %s) style[p] = cs.getPropertyValue(p);
	const r = this.getBoundingClientRect();
	const cls = typeof this.className === "string" ? this.className : (this.getAttribute("class") || "");
	return {
		tagName: this.tagName.toLowerCase(),
		id: this.id || "",
		className: cls,
		style: style,
		rect: {left: r.left, top: r.top, width: r.width, height: r.height},
		textContent: this.textContent || "",
		onlyText: Array.from(this.childNodes).every(n => n.nodeType !== Node.ELEMENT_NODE),
		src: typeof this.src === "string" ? this.src : "",
		offsetHeight: this.offsetHeight || 0,
		scrollHeight: this.scrollHeight || 0,
		clientHeight: this.clientHeight || 0,
	};
}`

const descendantTagsJS = `function() {
	return Array.from(this.querySelectorAll("*")).map(e => e.tagName.toLowerCase());
}`

const innerHTMLJS = `function() { return this.innerHTML; }`

const outerHTMLJS = `function() { return this.outerHTML; }`

const attributeValuesJS = `function() {
	return Array.from(this.querySelectorAll("[" + %[1]s + "]")).map(e => e.getAttribute(%[1]s) || "");
}`

const pageRectJS = `function() {
	const r = this.getBoundingClientRect();
	return {left: r.left + window.scrollX, top: r.top + window.scrollY, width: r.width, height: r.height};
}`

// isolateJS zeroes the opacity of every element unrelated to the target
// and stores the previous inline opacities on window for restoreJS. It
// returns -1 without touching the page when an isolation is pending.
const isolateJS = `function() {
	if (window.__slidesceneRestore) return -1;
	const saved = [];
	for (const e of document.querySelectorAll("*")) {
		if (!e.style) continue;
		saved.push([e, e.style.opacity]);
		if (e === this || this.contains(e) || e.contains(this)) continue;
		e.style.opacity = "0";
	}
	window.__slidesceneRestore = () => {
		for (const [e, v] of saved) e.style.opacity = v;
	};
	return saved.length;
}`

const restoreJS = `(() => {
	const fn = window.__slidesceneRestore;
	delete window.__slidesceneRestore;
	if (fn) fn();
	return !!fn;
})()`

// snapshotScript embeds the style property list into snapshotJS.
func snapshotScript() string {
	props, _ := json.Marshal(dom.StyleProperties)
	return fmt.Sprintf(snapshotJS, props)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func attributeValuesScript(attr string) string {
	return fmt.Sprintf(attributeValuesJS, jsString(strings.TrimSpace(attr)))
}
