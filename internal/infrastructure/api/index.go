package api

import (
	"net/http"
)

// HandleIndex - 地図ペインティング画面を表示
func (h *PaintingHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>Map Painting - 地図を絵画に</title>
<script src="https://cdn.tailwindcss.com"></script>
<style>
body { font-family: Inter, system-ui, -apple-system, Segoe UI, Roboto, sans-serif; }
.loader{border:8px solid #f3f3f3;border-top:8px solid #6366f1;border-radius:50%;width:56px;height:56px;animation:spin 1.2s linear infinite}
@keyframes spin{0%{transform:rotate(0)}100%{transform:rotate(360deg)}}
.result-preview{width:100%;height:420px;background:#f3f4f6;border:2px dashed #d1d5db;display:flex;align-items:center;justify-content:center;overflow:hidden;border-radius:8px}
.result-preview img{max-width:100%;max-height:100%;object-fit:contain}
</style>
</head>
<body class="bg-gray-50 text-gray-800">
<div class="max-w-5xl mx-auto p-6 space-y-6">
  <h1 class="text-2xl font-bold">Map Painting</h1>

  <form id="location-form" class="bg-white rounded-lg shadow p-4 grid grid-cols-1 md:grid-cols-5 gap-3">
    <input id="address" class="md:col-span-2 border rounded px-3 py-2" placeholder="住所 (例: Eiffel Tower, Paris)" required/>
    <input id="zoom" type="number" min="1" max="21" value="18" class="border rounded px-3 py-2" title="zoom"/>
    <input id="tilt" type="number" min="0" max="67.5" step="0.5" value="45" class="border rounded px-3 py-2" title="tilt"/>
    <button class="bg-indigo-600 text-white rounded px-4 py-2">地図を表示</button>
  </form>

  <div class="bg-white rounded-lg shadow p-4 space-y-3">
    <div id="view-info" class="text-sm text-gray-600">住所を入力してください</div>
    <label class="block text-sm">現在のビューのキャプチャ (PNG/JPEG)
      <input id="frame" type="file" accept="image/*" class="block mt-1"/>
    </label>
    <div class="flex gap-2">
      <button id="paint" class="bg-emerald-600 text-white rounded px-4 py-2 disabled:opacity-50" disabled>絵画を生成</button>
      <button id="back" class="bg-gray-200 rounded px-4 py-2 hidden">地図に戻る</button>
      <a id="download" class="bg-gray-800 text-white rounded px-4 py-2 hidden">ダウンロード</a>
    </div>
    <div id="error" class="text-red-600 text-sm"></div>
  </div>

  <div class="result-preview" id="result"><span class="text-gray-400">生成結果がここに表示されます</span></div>
</div>
<script>
let sessionId = null;

async function api(path, options) {
  const res = await fetch(path, options);
  const body = res.status === 204 ? {} : await res.json();
  if (!res.ok) throw new Error(body.error || res.statusText);
  return body;
}

function render(session) {
  const view = session.view;
  document.getElementById('view-info').textContent = view
    ? view.formatted_address + ' (' + view.lat.toFixed(5) + ', ' + view.lng.toFixed(5) + ') zoom ' + view.zoom + ' tilt ' + view.tilt
    : '住所を入力してください';
  document.getElementById('paint').disabled = !view || session.phase === 'generating';
  document.getElementById('back').classList.toggle('hidden', session.phase !== 'result_ready');
  const download = document.getElementById('download');
  download.classList.toggle('hidden', session.phase !== 'result_ready');
  download.href = '/api/sessions/' + sessionId + '/painting';
  if (session.phase === 'view_ready') {
    document.getElementById('result').innerHTML = '<span class="text-gray-400">生成結果がここに表示されます</span>';
  }
  document.getElementById('error').textContent = session.last_error || '';
}

async function ensureSession() {
  if (!sessionId) {
    const session = await api('/api/sessions', { method: 'POST' });
    sessionId = session.id;
  }
}

document.getElementById('location-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  try {
    await ensureSession();
    const session = await api('/api/sessions/' + sessionId + '/location', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        address: document.getElementById('address').value,
        zoom: parseInt(document.getElementById('zoom').value, 10),
        tilt: parseFloat(document.getElementById('tilt').value),
      }),
    });
    render(session);
  } catch (err) {
    document.getElementById('error').textContent = err.message;
  }
});

document.getElementById('frame').addEventListener('change', (e) => {
  const file = e.target.files[0];
  if (!file || !sessionId) return;
  const reader = new FileReader();
  reader.onload = async () => {
    try {
      await api('/api/sessions/' + sessionId + '/frames', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ data_uri: reader.result }),
      });
    } catch (err) {
      document.getElementById('error').textContent = err.message;
    }
  };
  reader.readAsDataURL(file);
});

document.getElementById('paint').addEventListener('click', async () => {
  const result = document.getElementById('result');
  result.innerHTML = '<div class="loader"></div>';
  document.getElementById('paint').disabled = true;
  try {
    const body = await api('/api/sessions/' + sessionId + '/paintings', { method: 'POST' });
    result.innerHTML = '<img src="' + body.data_uri + '"/>';
    render(body.session);
  } catch (err) {
    result.innerHTML = '';
    document.getElementById('error').textContent = err.message;
    render(await api('/api/sessions/' + sessionId));
  }
});

document.getElementById('back').addEventListener('click', async () => {
  try {
    render(await api('/api/sessions/' + sessionId + '/back', { method: 'POST' }));
  } catch (err) {
    document.getElementById('error').textContent = err.message;
  }
});
</script>
</body>
</html>`
